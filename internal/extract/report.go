// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/title-extractor/pkg/types"
)

// Report is the on-disk summary of one extraction run.
type Report struct {
	RunID     string          `json:"run_id" yaml:"run_id"`
	Input     string          `json:"input" yaml:"input"`
	Output    string          `json:"output" yaml:"output"`
	Status    types.RunStatus `json:"status" yaml:"status"`
	Count     int             `json:"count" yaml:"count"`
	Message   string          `json:"message" yaml:"message"`
	ErrorKind Kind            `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
}

// NewReport summarizes the outcome of a run.
func NewReport(res Result, err error) Report {
	rep := Report{
		RunID:     uuid.NewString(),
		Input:     res.Input,
		Output:    res.Output,
		Status:    types.RunSucceeded,
		Count:     res.Count,
		Message:   Message(res, err),
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		rep.Status = types.RunFailed
		rep.ErrorKind = KindOf(err)
		rep.Error = err.Error()
	}
	return rep
}

// WriteReport saves rep to path as JSON when the path ends in ".json"
// and as YAML otherwise.
func WriteReport(path string, rep Report) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(rep, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(&rep)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report previously written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var rep Report
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &rep)
	} else {
		err = yaml.Unmarshal(data, &rep)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &rep, nil
}
