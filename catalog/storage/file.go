package storage

import (
	"context"
	"os"
)

type FileMenuState struct {
	FilePath string
}

func NewFileMenuState(filePath string) *FileMenuState {
	return &FileMenuState{FilePath: filePath}
}

func (m *FileMenuState) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(m.FilePath)
}
