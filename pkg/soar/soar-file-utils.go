package soar

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadModuleFile reads a packed module file from disk. Packed modules
// are whole ripped executables, tens to low hundreds of kilobytes, so
// the file is read into memory in one go.
func LoadModuleFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// GetModuleInfo locates and parses the module in data without
// converting it, for info/listing front-ends.
func GetModuleInfo(data []byte) (*Module, error) {
	base, err := FindSong(data)
	if err != nil {
		return nil, err
	}
	return Parse(data, base)
}

// Convert runs the full pipeline on an in-memory buffer: locate the
// offset table, reconstruct the sections, serialize the editable file.
// The returned Module carries the section table and any diagnostics for
// the caller to report.
func Convert(data []byte) ([]byte, *Module, error) {
	m, err := GetModuleInfo(data)
	if err != nil {
		return nil, nil, err
	}
	return m.Encode(), m, nil
}

// ConvertFile converts the packed module at inPath and writes the
// editable file to outPath. The output is fully assembled in memory and
// written through a temporary file renamed into place, so a failure
// never leaves a truncated file at outPath.
func ConvertFile(inPath, outPath string) (*Module, error) {
	data, err := LoadModuleFile(inPath)
	if err != nil {
		return nil, err
	}

	out, m, err := Convert(data)
	if err != nil {
		return nil, err
	}

	if err := SaveFile(outPath, out); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return m, nil
}

// SaveFile writes data through a temporary file in the target directory
// and renames it into place, so an interrupted write never leaves a
// truncated file at path.
func SaveFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".soarconv-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
