// Package record reads and writes question files: a question, its
// solution and answer options, each stored as a serialized document
// value.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is one question file. Values are opaque serialized documents.
type Record struct {
	Question string   `yaml:"question"`
	Solution string   `yaml:"solution"`
	Options  []string `yaml:"options,omitempty"`
}

// Field is one editable value of a record.
type Field struct {
	Name  string
	Value string
}

var ErrUnknownField = errors.New("record: unknown field")

// Fields lists the record's values in display order: question, solution,
// then options as option[1], option[2], ...
func (r *Record) Fields() []Field {
	out := []Field{
		{Name: "question", Value: r.Question},
		{Name: "solution", Value: r.Solution},
	}
	for i, o := range r.Options {
		out = append(out, Field{Name: optionName(i), Value: o})
	}
	return out
}

// Clone returns a copy that shares no memory with r.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Options = slices.Clone(r.Options)
	return &cp
}

// Equal reports whether both records hold the same values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Question == o.Question && r.Solution == o.Solution && slices.Equal(r.Options, o.Options)
}

// Set stores value under a name returned by Fields.
func (r *Record) Set(name, value string) error {
	switch name {
	case "question":
		r.Question = value
		return nil
	case "solution":
		r.Solution = value
		return nil
	}
	if i, ok := optionIndex(name); ok && i < len(r.Options) {
		r.Options[i] = value
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func optionName(i int) string { return "option[" + strconv.Itoa(i+1) + "]" }

func optionIndex(name string) (int, bool) {
	s, ok := strings.CutPrefix(name, "option[")
	if !ok {
		return 0, false
	}
	s, ok = strings.CutSuffix(s, "]")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// Parse decodes a record. Unknown keys are rejected.
func Parse(data []byte) (*Record, error) {
	var r Record
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		if len(bytes.TrimSpace(data)) == 0 {
			return &r, nil
		}
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &r, nil
}

// Marshal encodes a record.
func (r *Record) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads a record file.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Save writes the record through a temporary file in the same directory
// and renames it over path.
func Save(path string, r *Record) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}
