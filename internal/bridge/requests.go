package bridge

import "errors"

type emptyRequest struct{}

type pathRequest struct {
	Path string `mapstructure:"path"`
}

type requiredPathRequest struct {
	Path string `mapstructure:"path"`
}

func (r requiredPathRequest) Validate() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

type saveFileRequest struct {
	Path    string `mapstructure:"path"`
	Content string `mapstructure:"content"`
}

func (r saveFileRequest) Validate() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

type saveFileAsRequest struct {
	Content string `mapstructure:"content"`
}

type createFileRequest struct {
	ParentPath string `mapstructure:"parent_path"`
	Filename   string `mapstructure:"filename"`
}

func (r createFileRequest) Validate() error {
	if r.Filename == "" {
		return errors.New("filename is required")
	}
	return nil
}

type createFolderRequest struct {
	ParentPath string `mapstructure:"parent_path"`
	FolderName string `mapstructure:"foldername"`
}

func (r createFolderRequest) Validate() error {
	if r.FolderName == "" {
		return errors.New("foldername is required")
	}
	return nil
}

type copyItemRequest struct {
	Path     string `mapstructure:"path"`
	ItemType string `mapstructure:"item_type"`
}

func (r copyItemRequest) Validate() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

type pasteItemRequest struct {
	TargetPath string `mapstructure:"target_path"`
}

type renameItemRequest struct {
	OldPath string `mapstructure:"old_path"`
	NewName string `mapstructure:"new_name"`
}

func (r renameItemRequest) Validate() error {
	if r.OldPath == "" {
		return errors.New("old_path is required")
	}
	return nil
}

type terminalRunRequest struct {
	Command string `mapstructure:"command"`
}

type themeRequest struct {
	Filename string `mapstructure:"filename"`
}

func (r themeRequest) Validate() error {
	if r.Filename == "" {
		return errors.New("filename is required")
	}
	return nil
}

type setPresenceRequest struct {
	Enabled bool `mapstructure:"enabled"`
}
