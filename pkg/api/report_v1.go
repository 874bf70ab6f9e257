// pkg/api/report_v1.go
package api

// PointV1 is one sampled grid pair: x=idx1, y=idx2, d=distance.
type PointV1 struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
	D uint16 `json:"d"`
}

// ChromosomeV1 is the stable JSON schema of the plotting report, one per
// sequence that produced pairs. MaxIdx is the largest grid index referenced
// by any pair of the sequence (sampled or not).
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ChromosomeV1 struct {
	Name   string    `json:"name"`
	MaxIdx uint32    `json:"max_idx"`
	Points []PointV1 `json:"points"`
}
