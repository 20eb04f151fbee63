package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/qpasswd/internal/config"
)

// ConfigShow prints the config file location and the effective settings
func ConfigShow(app *App) {
	path := config.DefaultPath()
	state := "not found, using defaults"
	if _, err := os.Stat(path); err == nil {
		state = "loaded"
	}
	fmt.Printf("# %s (%s)\n", path, state)

	data, err := config.Encode(app.Config)
	if err != nil {
		HandleError(err)
	}
	fmt.Print(string(data))
}

// ConfigInit writes the default configuration file
func ConfigInit(force bool) {
	path := config.DefaultPath()
	if path == "" {
		HandleError(fmt.Errorf("cannot locate config directory, set %s", config.EnvConfigPath))
	}

	if _, err := os.Stat(path); err == nil && !force {
		HandleError(fmt.Errorf("%s already exists, use --force to overwrite", path))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		HandleError(err)
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		HandleError(err)
	}
	fmt.Printf("Wrote %s\n", path)
}
