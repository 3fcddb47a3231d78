package convert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fwbids/internal/bids"
	"fwbids/internal/flywheel"
	"fwbids/internal/logging"
	"fwbids/internal/query"
)

// Action describes one per-file metadata write, performed or planned.
type Action struct {
	AcquisitionID string
	FileName      string
	Destination   string
	IntendedFor   []string
}

// ApplyHeuristic organizes the sequences matched to one destination key. For
// every matched sequence the template is expanded with the sequence's subject
// and session labels and a one-based item index, and each of the sequence's
// files receives updated BIDS metadata. The returned actions list what was
// written, or what would have been written under dry-run.
//
// Writes happen strictly in order and the first failure aborts the rest.
func ApplyHeuristic(ctx context.Context, client flywheel.Client, logger *slog.Logger, key bids.Key, matched []query.SeqInfo, dryRun bool, intendedFor []string) ([]Action, error) {
	logger = logging.WithComponent(logger, "convert")

	var actions []Action
	for item, info := range matched {
		destination := key.Expand(cleanLabel(info.SubjectLabel, "sub-"), cleanLabel(info.SessionLabel, "ses-"), item+1)
		for _, fileName := range info.FileNames {
			action := Action{
				AcquisitionID: info.AcquisitionID,
				FileName:      fileName,
				Destination:   destination + fileExtension(fileName),
				IntendedFor:   intendedFor,
			}
			actions = append(actions, action)

			if dryRun {
				logger.Info("would update file",
					logging.String(logging.FieldSeriesID, info.SeriesID),
					logging.String("file", fileName),
					logging.String(logging.FieldDestination, action.Destination),
				)
				continue
			}

			logger.Debug("updating file",
				logging.String(logging.FieldSeriesID, info.SeriesID),
				logging.String("file", fileName),
				logging.String(logging.FieldDestination, action.Destination),
			)
			if err := client.UpdateFileInfo(ctx, info.AcquisitionID, fileName, bidsInfo(key, action.Destination)); err != nil {
				return actions, fmt.Errorf("apply %s to %s/%s: %w", key, info.AcquisitionID, fileName, err)
			}
			if err := UpdateIntentions(ctx, client, info.AcquisitionID, fileName, intendedFor); err != nil {
				return actions, err
			}
		}
	}
	return actions, nil
}

// UpdateIntentions writes the IntendedFor list into a file's BIDS metadata.
// An empty list is a no-op rather than a remote write.
func UpdateIntentions(ctx context.Context, client flywheel.Client, acquisitionID, fileName string, intendedFor []string) error {
	if len(intendedFor) == 0 {
		return nil
	}
	info := map[string]any{
		"IntendedFor": intendedFor,
	}
	if err := client.UpdateFileInfo(ctx, acquisitionID, fileName, info); err != nil {
		return fmt.Errorf("update intentions for %s/%s: %w", acquisitionID, fileName, err)
	}
	return nil
}

func bidsInfo(key bids.Key, destination string) map[string]any {
	name := destination
	folder := ""
	if idx := strings.LastIndex(destination, "/"); idx >= 0 {
		name = destination[idx+1:]
		folder = destination[:idx]
	}
	return map[string]any{
		"BIDS": map[string]any{
			"Filename": name,
			"Folder":   key.Datatype(),
			"Path":     folder,
		},
	}
}

// cleanLabel strips a redundant entity prefix so templates that spell out
// sub-{subject} do not double it when labels already carry the prefix.
func cleanLabel(label, prefix string) string {
	return strings.TrimPrefix(label, prefix)
}

// fileExtension returns everything from the first dot of the base name, so
// compound extensions like .dicom.zip and .nii.gz survive expansion.
func fileExtension(fileName string) string {
	if idx := strings.Index(fileName, "."); idx >= 0 {
		return fileName[idx:]
	}
	return ""
}
