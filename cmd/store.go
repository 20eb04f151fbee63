package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/illarion/qpasswd/internal/crypto"
	"github.com/illarion/qpasswd/internal/security"
)

// StoreList shows stored entries. No passphrase is needed.
func StoreList(app *App) {
	store, err := app.OpenStore()
	if err != nil {
		HandleError(err)
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		HandleError(err)
	}

	modified, err := store.Modified()
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("Store: %s\n", store.Path())
	fmt.Printf("ID: %s (modified %s)\n\n", store.ID(), modified.Local().Format(time.DateTime))

	if len(entries) == 0 {
		fmt.Println("No entries")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tSIZE\tSTORED\tCREATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Label, formatSize(e.Size), formatSize(e.CipherSize), e.Created.Local().Format(time.DateTime))
	}
	tw.Flush()
}

// StoreGet decrypts the entry under label to stdout or outPath
func StoreGet(ctx context.Context, app *App, label, outPath, pass string) {
	Decrypt(ctx, app, DecryptOptions{From: label, OutPath: outPath, Pass: pass})
}

// StoreRemove deletes entries and compacts the database
func StoreRemove(app *App, labels []string) {
	store, err := app.OpenStore()
	if err != nil {
		HandleError(err)
	}
	defer store.Close()

	for _, label := range labels {
		if err := store.Remove(label); err != nil {
			HandleError(err)
		}
		fmt.Printf("Removed %s\n", label)
	}

	if err := store.Compact(); err != nil {
		app.Log.Warn().Err(err).Msg("compact after remove failed")
	}
}

// StoreDiff compares the entry under label with a local file
func StoreDiff(ctx context.Context, app *App, label, path, pass string) {
	wd, err := security.Open(".")
	if err != nil {
		HandleError(err)
	}
	defer wd.Close()

	local, err := wd.ReadFile(path)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(local)

	store, err := app.OpenStore()
	if err != nil {
		HandleError(err)
	}
	defer store.Close()

	password := GetPassphraseOrExit(pass, false)
	defer crypto.ClearBytes(password)

	diff, err := store.Diff(ctx, label, password, local)
	if err != nil {
		HandleError(err)
	}

	if diff == "" {
		fmt.Printf("%s: no changes\n", label)
		return
	}
	fmt.Print(diff)
}

// StoreCompact reclaims unused space in the store database
func StoreCompact(app *App) {
	store, err := app.OpenStore()
	if err != nil {
		HandleError(err)
	}
	defer store.Close()

	sizeBefore, err := fileSize(store.Path())
	if err != nil {
		HandleError(err)
	}

	if err := store.Compact(); err != nil {
		HandleError(err)
	}

	sizeAfter, err := fileSize(store.Path())
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// formatSize formats a byte count in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
