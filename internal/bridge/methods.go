package bridge

import (
	"context"

	"github.com/Cyclone1070/mizu/internal/workspace"
)

func (b *Bridge) registerMethods() {
	register(b, "select_folder", b.selectFolder)
	register(b, "get_file_tree", b.getFileTree)
	register(b, "read_file", b.readFile)
	register(b, "save_file", b.saveFile)
	register(b, "save_file_as", b.saveFileAs)
	register(b, "create_file", b.createFile)
	register(b, "create_folder", b.createFolder)
	register(b, "delete_item", b.deleteItem)
	register(b, "copy_item", b.copyItem)
	register(b, "paste_item", b.pasteItem)
	register(b, "rename_item", b.renameItem)
	register(b, "reveal_item", b.revealItem)
	register(b, "get_full_path", b.getFullPath)
	register(b, "terminal_run", b.terminalRun)
	register(b, "terminal_cancel", b.terminalCancel)
	register(b, "get_available_themes", b.getAvailableThemes)
	register(b, "check_theme_exists", b.checkThemeExists)
	register(b, "save_theme", b.saveTheme)
	register(b, "get_saved_theme", b.getSavedTheme)
	register(b, "get_presence", b.getPresence)
	register(b, "set_presence", b.setPresence)
}

func (b *Bridge) selectFolder(ctx context.Context, _ emptyRequest) (any, error) {
	root, err := b.workspace.OpenWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	b.presence.Refresh()
	return map[string]any{"folder": root}, nil
}

func (b *Bridge) getFileTree(ctx context.Context, _ emptyRequest) (any, error) {
	tree, err := b.workspace.ListTree(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"tree": tree, "folder": b.workspace.Root()}, nil
}

func (b *Bridge) readFile(_ context.Context, req requiredPathRequest) (any, error) {
	text, err := b.workspace.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}
	b.presence.Refresh()
	return map[string]any{"content": text, "path": req.Path}, nil
}

func (b *Bridge) saveFile(_ context.Context, req saveFileRequest) (any, error) {
	if err := b.workspace.WriteFile(req.Path, req.Content); err != nil {
		return nil, err
	}
	return map[string]any{"path": req.Path}, nil
}

func (b *Bridge) saveFileAs(ctx context.Context, req saveFileAsRequest) (any, error) {
	res, err := b.workspace.SaveAs(ctx, req.Content)
	if err != nil {
		return nil, err
	}
	b.presence.Refresh()
	return res, nil
}

func (b *Bridge) createFile(_ context.Context, req createFileRequest) (any, error) {
	return nil, b.workspace.CreateFile(req.ParentPath, req.Filename)
}

func (b *Bridge) createFolder(_ context.Context, req createFolderRequest) (any, error) {
	return nil, b.workspace.CreateFolder(req.ParentPath, req.FolderName)
}

func (b *Bridge) deleteItem(_ context.Context, req requiredPathRequest) (any, error) {
	if err := b.workspace.DeleteItem(req.Path); err != nil {
		return nil, err
	}
	b.presence.Refresh()
	return nil, nil
}

func (b *Bridge) copyItem(_ context.Context, req copyItemRequest) (any, error) {
	item, err := b.workspace.CopyItem(req.Path, workspace.ItemKind(req.ItemType))
	if err != nil {
		return nil, err
	}
	return map[string]any{"copied": item.Name, "item": item}, nil
}

func (b *Bridge) pasteItem(_ context.Context, req pasteItemRequest) (any, error) {
	name, err := b.workspace.PasteItem(req.TargetPath)
	if err != nil {
		return nil, err
	}
	return map[string]any{"pasted": name}, nil
}

func (b *Bridge) renameItem(_ context.Context, req renameItemRequest) (any, error) {
	if err := b.workspace.RenameItem(req.OldPath, req.NewName); err != nil {
		return nil, err
	}
	b.presence.Refresh()
	return nil, nil
}

func (b *Bridge) revealItem(_ context.Context, req pathRequest) (any, error) {
	return nil, b.workspace.RevealInSystemExplorer(req.Path)
}

func (b *Bridge) getFullPath(_ context.Context, req pathRequest) (any, error) {
	abs, err := b.workspace.ResolveAbsolutePath(req.Path)
	if err != nil {
		return nil, err
	}
	return map[string]any{"path": abs}, nil
}

func (b *Bridge) terminalRun(ctx context.Context, req terminalRunRequest) (any, error) {
	res := b.terminal.Run(ctx, req.Command)
	if res.NoWorkspace {
		return nil, &workspace.Error{Kind: workspace.KindNoWorkspace, Op: "terminal_run", Msg: res.Error}
	}
	return res, nil
}

func (b *Bridge) terminalCancel(_ context.Context, _ emptyRequest) (any, error) {
	return map[string]any{"cancelled": b.terminal.Cancel()}, nil
}

func (b *Bridge) getAvailableThemes(_ context.Context, _ emptyRequest) (any, error) {
	themes, err := b.themes.List()
	if err != nil {
		return nil, err
	}
	return map[string]any{"themes": themes}, nil
}

func (b *Bridge) checkThemeExists(_ context.Context, req themeRequest) (any, error) {
	return map[string]any{"exists": b.themes.Exists(req.Filename), "filename": req.Filename}, nil
}

func (b *Bridge) saveTheme(_ context.Context, req themeRequest) (any, error) {
	if err := b.themes.Save(req.Filename); err != nil {
		return nil, err
	}
	return map[string]any{"theme": req.Filename}, nil
}

func (b *Bridge) getSavedTheme(_ context.Context, _ emptyRequest) (any, error) {
	return map[string]any{"theme": b.themes.Saved()}, nil
}

func (b *Bridge) getPresence(_ context.Context, _ emptyRequest) (any, error) {
	return b.presence.Status(), nil
}

func (b *Bridge) setPresence(_ context.Context, req setPresenceRequest) (any, error) {
	return b.presence.SetEnabled(req.Enabled)
}
