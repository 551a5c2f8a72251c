package export

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/config"
	"github.com/talkincode/shopgen/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WorkbookFile is the name of the XLSX export.
const WorkbookFile = "ecommerce.xlsx"

// Run writes every export enabled in cfg into dir concurrently and returns
// the written files in a stable order.
func Run(ctx context.Context, cfg config.ExportConfig, dir string, ds *domain.Dataset) ([]string, error) {
	var (
		mu       sync.Mutex
		csvFiles []string
		xlsxFile string
	)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create export dir %s", dir)
	}
	g, ctx := errgroup.WithContext(ctx)
	if cfg.CSV {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files, err := WriteCSV(dir, ds)
			if err != nil {
				return err
			}
			mu.Lock()
			csvFiles = files
			mu.Unlock()
			return nil
		})
	}
	if cfg.XLSX {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file := filepath.Join(dir, WorkbookFile)
			if err := WriteXLSX(file, ds); err != nil {
				return err
			}
			mu.Lock()
			xlsxFile = file
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "export dataset")
	}

	files := csvFiles
	if xlsxFile != "" {
		files = append(files, xlsxFile)
	}
	zap.L().Info("dataset exported",
		zap.String("namespace", "export"),
		zap.String("dir", dir),
		zap.Int("files", len(files)))
	return files, nil
}
