package storage

import (
	"errors"
	"fmt"
	"strings"

	"hr-onboarding/internal/models"
)

var ErrFileMissing = errors.New("file not found")

type InvalidFileTypeError struct {
	Slot    models.Slot
	Allowed []string
	Got     string
}

func (e *InvalidFileTypeError) Error() string {
	return fmt.Sprintf("invalid file type for %s: %s (allowed: %s)", e.Slot, e.Got, strings.Join(e.Allowed, ", "))
}

type FileTooLargeError struct {
	Slot  models.Slot
	Limit int64
	Size  int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file for %s exceeds %d bytes", e.Slot, e.Limit)
}
