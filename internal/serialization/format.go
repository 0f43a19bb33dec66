// Package serialization implements the .stdl container for trained models.
//
// Layout of a .stdl file:
//
//	[64 bytes: fixed header]
//	  0x00  magic "STDL"
//	  0x04  format version (uint32 LE)
//	  0x08  flags (uint32 LE)
//	  0x0C  reserved
//	  0x10  JSON header size (uint64 LE)
//	  0x18  tensor data size (uint64 LE)
//	  0x20  SHA-256 checksum of the tensor data (32 bytes)
//	[JSON header]
//	[padding to a 64-byte boundary]
//	[tensor data: raw bytes, concatenated in header order]
//
// The JSON header names every tensor together with its dtype, shape and
// offset into the data section, and carries the estimator configuration
// needed to rebuild the network before loading weights into it.
package serialization

import (
	"time"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "STDL"
	FormatVersion   = 1
	FixedHeaderSize = 64   // bytes
	DataAlignment   = 64   // tensor data starts on a 64-byte boundary
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // within the fixed header

	maxHeaderSize = 100 * 1024 * 1024
)

// Flags stored in the fixed header.
const (
	FlagHasConfig uint32 = 1 << 0 // estimator configuration present
)

// Data type names used in the JSON header.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
	DTypeInt64   = "int64"
)

// Header is the JSON header of a .stdl file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	LibraryVersion string            `json:"library_version"`
	ModelID        string            `json:"model_id"`   // UUID assigned at save time
	ModelType      string            `json:"model_type"` // e.g. "InceptionTimeRegressor"
	CreatedAt      time.Time         `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Config         map[string]string `json:"config"` // estimator hyperparameters
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // parameter name, e.g. "block0.conv0.weight"
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes
}

func dtypeToString(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return DTypeFloat32
	case tensor.Float64:
		return DTypeFloat64
	case tensor.Int64:
		return DTypeInt64
	default:
		return "unknown"
	}
}

func stringToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case DTypeFloat32:
		return tensor.Float32, true
	case DTypeFloat64:
		return tensor.Float64, true
	case DTypeInt64:
		return tensor.Int64, true
	default:
		return 0, false
	}
}
