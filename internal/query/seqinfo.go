package query

import (
	"context"
	"fmt"
	"strings"

	"fwbids/internal/flywheel"
)

// SeqInfo summarizes one imaging acquisition's technical parameters along
// with the provenance the apply layer needs to locate its files remotely.
type SeqInfo struct {
	SeriesID      string
	ProtocolName  string
	TR            float64
	TE            float64
	Dim1          int
	Dim2          int
	Dim3          int
	Dim4          int
	ImageType     string
	SubjectLabel  string
	SessionLabel  string
	AcquisitionID string
	FileNames     []string
}

// String renders the display form used in debug logs.
func (s SeqInfo) String() string {
	return fmt.Sprintf("%s: [TR=%.2f TE=%.4f shape=(%d, %d, %d, %d) image_type=%s] (%s)",
		s.ProtocolName, s.TR, s.TE, s.Dim1, s.Dim2, s.Dim3, s.Dim4, s.ImageType, s.SeriesID)
}

// ToMap converts the record into the loosely typed form handed to
// interpreted heuristic files.
func (s SeqInfo) ToMap() map[string]any {
	return map[string]any{
		"series_id":     s.SeriesID,
		"protocol_name": s.ProtocolName,
		"tr":            s.TR,
		"te":            s.TE,
		"dim1":          s.Dim1,
		"dim2":          s.Dim2,
		"dim3":          s.Dim3,
		"dim4":          s.Dim4,
		"image_type":    s.ImageType,
		"subject":       s.SubjectLabel,
		"session":       s.SessionLabel,
	}
}

// GetSeqInfo fetches acquisitions for each session and builds one SeqInfo per
// acquisition that carries at least one DICOM file. Sessions are visited in
// the order given; acquisitions in the order the service returns them.
func GetSeqInfo(ctx context.Context, client flywheel.Client, sessions []flywheel.Session) ([]SeqInfo, error) {
	var infos []SeqInfo
	for _, session := range sessions {
		acquisitions, err := client.ListAcquisitions(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("list acquisitions for session %s: %w", session.Label, err)
		}
		for _, acquisition := range acquisitions {
			info, ok := fromAcquisition(session, acquisition)
			if !ok {
				continue
			}
			infos = append(infos, info)
		}
	}
	return infos, nil
}

func fromAcquisition(session flywheel.Session, acquisition flywheel.Acquisition) (SeqInfo, bool) {
	var dicom *flywheel.File
	var names []string
	for i := range acquisition.Files {
		file := &acquisition.Files[i]
		names = append(names, file.Name)
		if dicom == nil && strings.EqualFold(file.Type, "dicom") {
			dicom = file
		}
	}
	if dicom == nil {
		return SeqInfo{}, false
	}

	info := SeqInfo{
		SeriesID:      acquisition.ID,
		ProtocolName:  stringField(dicom.Info, "ProtocolName"),
		TR:            floatField(dicom.Info, "RepetitionTime"),
		TE:            floatField(dicom.Info, "EchoTime"),
		Dim1:          intField(dicom.Info, "Rows"),
		Dim2:          intField(dicom.Info, "Columns"),
		Dim3:          intField(dicom.Info, "ImagesInAcquisition"),
		Dim4:          intField(dicom.Info, "NumberOfTemporalPositions"),
		ImageType:     imageTypeField(dicom.Info),
		SubjectLabel:  session.Subject.Label,
		SessionLabel:  session.Label,
		AcquisitionID: acquisition.ID,
		FileNames:     names,
	}
	if info.ProtocolName == "" {
		info.ProtocolName = acquisition.Label
	}
	if info.Dim4 == 0 {
		info.Dim4 = 1
	}
	return info, true
}

func stringField(info map[string]any, key string) string {
	if value, ok := info[key].(string); ok {
		return value
	}
	return ""
}

func floatField(info map[string]any, key string) float64 {
	switch value := info[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	}
	return 0
}

func intField(info map[string]any, key string) int {
	switch value := info[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	}
	return 0
}

// imageTypeField joins the DICOM ImageType multi-value into the canonical
// bracketed display form, e.g. [ORIGINAL PRIMARY M].
func imageTypeField(info map[string]any) string {
	raw, ok := info["ImageType"]
	if !ok {
		return ""
	}
	switch value := raw.(type) {
	case string:
		return value
	case []any:
		parts := make([]string, 0, len(value))
		for _, entry := range value {
			if s, ok := entry.(string); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return ""
}
