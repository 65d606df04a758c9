package journal

import "fmt"

// Options selects and locates a journal backend.
type Options struct {
	Type       string // "none", "csv" or "sqlite"
	TradesFile string
	EquityFile string
	DBPath     string
}

// Open builds the journal described by opts.
func Open(opts Options) (Journal, error) {
	switch opts.Type {
	case "", "none":
		return Nop{}, nil
	case "csv":
		j, err := NewCSV(opts.TradesFile, opts.EquityFile)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "sqlite":
		j, err := NewSQLite(opts.DBPath)
		if err != nil {
			return nil, err
		}
		return j, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q (supported: none, csv, sqlite)", opts.Type)
	}
}
