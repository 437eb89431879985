package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/builder"
	"github.com/lexyai/drafter/internal/usecase/precedent"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ingestManifest string
	ingestDir      string
	ingestEnv      string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract precedents and store them against the contract catalog",
	Long: `Reads every precedent listed in a YAML manifest (or every .docx in a directory),
upserts its contract type and replaces the stored outline and section rows.
Entries without a contract type are matched against the catalog by name tokens.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestManifest, "manifest", "", "YAML manifest listing precedent files")
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "directory of .docx precedents")
	ingestCmd.Flags().StringVar(&ingestEnv, "env", "local", "environment whose .env file is loaded")
	ingestCmd.MarkFlagsMutuallyExclusive("manifest", "dir")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	manifest, err := loadIngestManifest()
	if err != nil {
		return err
	}

	store, logger, release, err := builder.BuildCatalog(cmd.Context(), ingestEnv)
	if err != nil {
		return err
	}
	defer release()

	ctx := ctxzap.ToContext(cmd.Context(), logger.With(zap.String("action", "IngestPrecedents")))
	results, err := precedent.NewIngester(store).Ingest(ctx, manifest)
	if err != nil {
		return fmt.Errorf("ingest precedents: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func loadIngestManifest() (*precedent.Manifest, error) {
	switch {
	case ingestManifest != "":
		return precedent.LoadManifest(ingestManifest)
	case ingestDir != "":
		return precedent.ManifestFromDir(ingestDir)
	default:
		return nil, errors.New("one of --manifest or --dir is required")
	}
}
