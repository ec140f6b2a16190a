package intake

import (
	"log/slog"

	"github.com/aerislabs/aeris/internal/storage"
	"github.com/aerislabs/aeris/internal/store"
)

// Sync walks the drop folder and brings the store up to date:
//   - new/changed documents are parsed and ingested
//   - documents that fail to parse are quarantined
//   - documents removed from disk are forgotten (their ingested records
//     stay; an intake file is an import, not the system of record)
func Sync(st store.Store, files storage.Provider, logger *slog.Logger) error {
	metas, err := files.List("")
	if err != nil {
		return err
	}

	checksums, err := st.IntakeChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := files.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := ingestFile(st, m.Path, data); err != nil {
			logger.Warn("sync: ingest failed, quarantining",
				slog.String("path", m.Path), slog.String("error", err.Error()))
			if qErr := files.Quarantine(m.Path); qErr != nil {
				logger.Warn("sync: quarantine failed", slog.String("path", m.Path), slog.String("error", qErr.Error()))
			}
		} else {
			logger.Debug("sync: ingested", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := st.DeleteIntakeFile(p); err != nil {
				logger.Warn("sync: forget failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: forgot removed file", slog.String("path", p))
			}
		}
	}

	return nil
}

// ingestFile parses one document and upserts its items and zones. The
// checksum is recorded only after a fully successful ingest so a partial
// failure is retried on the next pass.
func ingestFile(st store.Store, path string, data []byte) error {
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	for _, item := range doc.Items {
		if err := st.UpsertItem(item); err != nil {
			return err
		}
	}
	for _, z := range doc.Zones {
		if err := st.UpsertZone(z); err != nil {
			return err
		}
	}
	return st.SetIntakeChecksum(path, storage.Checksum(data))
}
