package cmd

import (
	"fmt"
	"io"
	"os"
)

// writeCSVFile writes a CSV export to path
func writeCSVFile(out io.Writer, path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
