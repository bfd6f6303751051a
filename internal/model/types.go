package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Target is the stored form of a target prototype description.
type Target struct {
	Kind    string `json:"kind"`
	Inputs  int    `json:"inputs,omitempty"`
	Outputs int    `json:"outputs,omitempty"`
	Body    string `json:"body,omitempty"`
	Phases  int    `json:"phases,omitempty"`
	Size    int    `json:"size,omitempty"`
}

// Pipeline is a canonical builder configuration sized against one target.
type Pipeline struct {
	VersionedRecord
	ID           string `json:"id"`
	Config       string `json:"config"`
	Target       Target `json:"target"`
	GenomeKind   string `json:"genome_kind"`
	GenomeLength int    `json:"genome_length"`
}

// Genome is a flat genome bound to the pipeline that sized it.
type Genome struct {
	VersionedRecord
	ID         string    `json:"id"`
	PipelineID string    `json:"pipeline_id"`
	Reals      []float64 `json:"reals,omitempty"`
	Bits       []bool    `json:"bits,omitempty"`
}
