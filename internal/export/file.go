package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plantops/ot/internal/types"
)

// DefaultFileName is "OT-0042.xlsx" for order number OT-0042, or
// "orden-42.xlsx" when the order has no number.
func DefaultFileName(o *types.WorkOrder) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) || r == ' ' {
			return '_'
		}
		return r
	}, o.Number)
	if name == "" {
		name = fmt.Sprintf("orden-%d", o.ID)
	}
	return name + ".xlsx"
}

// WriteFile writes the workbook of o to path atomically: a temp file in the
// same directory is renamed over path once complete.
func WriteFile(path string, o *types.WorkOrder) error {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("export file %q must have the .xlsx extension", path)
	}
	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp export file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()    // Best effort: may already be closed before rename
		_ = os.Remove(tempPath) // Best effort: may already be renamed
	}()

	if err := Write(tempFile, o); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace export file: %w", err)
	}
	return nil
}
