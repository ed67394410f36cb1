package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/mathdoc/internal/record"
	"github.com/iw2rmb/mathdoc/session"
)

func newFmtCmd(e *env) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt FILE...",
		Short: "Rewrite every field in canonical serialized form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				rec, changed, err := canonicalize(e, path)
				if err != nil {
					return err
				}
				if !write {
					data, err := rec.Marshal()
					if err != nil {
						return err
					}
					if _, err := cmd.OutOrStdout().Write(data); err != nil {
						return err
					}
					continue
				}
				if !changed {
					continue
				}
				if err := record.Save(path, rec); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file instead of stdout")
	return cmd
}

// canonicalize loads a record and replaces each field by the serialized
// value of its parsed document. It reports whether the file would change.
func canonicalize(e *env, path string) (*record.Record, bool, error) {
	before, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read record: %w", err)
	}
	rec, err := record.Parse(before)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	for _, f := range rec.Fields() {
		s := session.New(f.Value, e.cfg.SessionOptions())
		if len(s.Issues()) > 0 {
			e.log.Warn("field rewritten with placeholders", "file", path, "field", f.Name, "issues", len(s.Issues()))
		}
		if err := rec.Set(f.Name, s.SerializedValue()); err != nil {
			return nil, false, err
		}
	}
	after, err := rec.Marshal()
	if err != nil {
		return nil, false, err
	}
	return rec, !bytes.Equal(before, after), nil
}
