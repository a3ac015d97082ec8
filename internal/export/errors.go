package export

import "fmt"

// SetupError means a job could not get past setup, most often because
// its filter cannot be resolved. The job never starts and its status
// record ends as "error".
type SetupError struct {
	Reason string
	Err    error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export setup: %s: %v", e.Reason, e.Err)
	}
	return "export setup: " + e.Reason
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// SourceReadError means a record or deletion query against the record
// source failed. It is fatal for the chunk being read but not for the
// job.
type SourceReadError struct {
	Stage string
	Err   error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read %s from source: %v", e.Stage, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// ConversionError means one record failed extraction or a converter
// stage. The record is dropped from the chunk's output and the job
// carries on, finishing as "done_with_errors".
type ConversionError struct {
	RecordID string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert record %s: %v", e.RecordID, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// SinkWriteError means an add, delete, or commit call against the sink
// failed. For compound jobs one child's sink failure never stops the
// other children from writing.
type SinkWriteError struct {
	Op  string
	Err error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Op, e.Err)
}

func (e *SinkWriteError) Unwrap() error {
	return e.Err
}
