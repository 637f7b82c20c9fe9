package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/investor-portal/internal/config"
	"github.com/GregMSThompson/investor-portal/internal/intent"
	"github.com/GregMSThompson/investor-portal/internal/sampledata"
	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Data      *sampledata.Provider
	Lexicon   intent.Lexicon
}

// Run builds the process-wide clients. Cloud clients are only created when
// the configuration selects them, so local runs need no credentials.
func Run(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	var err error
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.HandlerFor(cfg.LogFormat))
	slog.SetDefault(bs.Log)

	bs.Data, err = sampledata.LoadDir(cfg.SampleData)
	if err != nil {
		return bs, fmt.Errorf("load sample data: %w", err)
	}
	bs.Lexicon, err = intent.LoadLexicon(cfg.IntentLexicon)
	if err != nil {
		return bs, fmt.Errorf("load intent lexicon: %w", err)
	}
	bs.Log.Info("intent lexicon loaded", "version", bs.Lexicon.Version)

	if cfg.Storage == config.StorageFirestore {
		bs.Firestore, err = InitFirestore(ctx, cfg.ProjectID)
		if err != nil {
			return bs, fmt.Errorf("init firestore: %w", err)
		}
	}
	if cfg.AuthMode == config.AuthFirebase {
		bs.Firebase, err = InitFirebase(ctx, cfg.ProjectID)
		if err != nil {
			return bs, fmt.Errorf("init firebase: %w", err)
		}
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("closing firestore client", "error", err)
		}
	}
}
