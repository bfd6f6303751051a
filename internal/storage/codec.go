package storage

import (
	"encoding/json"
	"errors"

	"genopheno/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// CurrentVersion stamps a new record with the versions this build writes.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodePipeline(p model.Pipeline) ([]byte, error) {
	return json.Marshal(p)
}

func DecodePipeline(data []byte) (model.Pipeline, error) {
	var pipeline model.Pipeline
	if err := json.Unmarshal(data, &pipeline); err != nil {
		return model.Pipeline{}, err
	}
	if err := checkVersion(pipeline.VersionedRecord); err != nil {
		return model.Pipeline{}, err
	}
	return pipeline, nil
}

func EncodeGenome(g model.Genome) ([]byte, error) {
	return json.Marshal(g)
}

func DecodeGenome(data []byte) (model.Genome, error) {
	var genome model.Genome
	if err := json.Unmarshal(data, &genome); err != nil {
		return model.Genome{}, err
	}
	if err := checkVersion(genome.VersionedRecord); err != nil {
		return model.Genome{}, err
	}
	return genome, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
