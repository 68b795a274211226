package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlist/internal/auth"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthURL prints the provider authorization URL so the OAuth flow can be
// exercised without a running frontend.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	exchanger, err := auth.NewSpotifyExchanger(config.Credentials.Spotify)
	if err != nil {
		return err
	}

	state := shared.GenerateID()

	r.writePlain("Open the following URL in a browser to authorize:\n\n")
	r.writePlain("%s\n\n", exchanger.AuthURL(state))
	r.writePlain("state: %s\n", state)

	return nil
}

// History lists playlists recently created through this server.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	if config.Database.Path == "" {
		return fmt.Errorf("%w: database path not configured", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	playlists, err := repositories.NewPlaylistLog(db).Recent(int(limit))
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(playlists, true)
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists created yet.\n")
	}

	for _, p := range playlists {
		r.writePlain("%s  (%d tracks)  %s\n", p.Name, p.TrackCount, p.URL)
	}

	return nil
}
