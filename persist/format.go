// Package persist implements the binary model format of §4.6: a
// self-contained file carrying the magic header, format version, loss
// kind, learning rate, feature dimensions, base prediction, per-feature
// bucketiser thresholds, and a pre-order serialisation of every tree.
//
// The wire layout is pinned exactly by the specification (tag-byte
// pre-order nodes, not a free-form value graph), so encoding/gob — the
// precedent for tree-ensemble persistence elsewhere in this codebase's
// lineage — cannot produce it; this package reads and writes the format
// directly with encoding/binary, in fixed big-endian byte order, via the
// EncodeTo(w)/DecodeFrom(r) method-pair convention.
package persist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tarstars/gbdte/bucket"
	"github.com/tarstars/gbdte/gbdt"
)

// magic identifies a gbdte model file; version allows the format to evolve.
const (
	magic          uint32 = 0x67626465 // "gbde"
	formatVersion  uint16 = 1
	tagInternal    byte   = 0
	tagLeaf        byte   = 1
)

// ErrFormatMismatch indicates the file's magic or version does not match
// what this package writes (§7's FormatMismatch, surfaced as IOError).
var ErrFormatMismatch = errors.New("persist: magic or version mismatch")

// ErrIOError wraps an underlying filesystem or stream failure (§7's IOError).
var ErrIOError = errors.New("persist: io error")

func ioErrorf(op string, err error) error {
	return fmt.Errorf("persist.%s: %w: %w", op, ErrIOError, err)
}

// Save writes ens to path in the binary format of §4.6.
func Save(path string, ens *gbdt.Ensemble) error {
	f, err := os.Create(path)
	if err != nil {
		return ioErrorf("Save", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := EncodeTo(w, ens); err != nil {
		return ioErrorf("Save", err)
	}
	if err := w.Flush(); err != nil {
		return ioErrorf("Save", err)
	}
	return f.Close()
}

// Load reads a model previously written by Save, validating the magic and
// version before trusting the rest of the file.
func Load(path string) (*gbdt.Ensemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErrorf("Load", err)
	}
	defer f.Close()

	ens, err := DecodeFrom(bufio.NewReader(f))
	if err != nil {
		return nil, ioErrorf("Load", err)
	}
	return ens, nil
}

// EncodeTo writes ens's wire representation to w.
func EncodeTo(w io.Writer, ens *gbdt.Ensemble) error {
	if err := binary.Write(w, binary.BigEndian, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint8(ens.Loss)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, ens.LearningRate); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(ens.InterDim)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(ens.ExtraDim)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, ens.BasePrediction); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(ens.ThreadsNum)); err != nil {
		return err
	}

	for j := 0; j < ens.InterDim; j++ {
		var thresholds []float64
		if ens.Buckets != nil {
			thresholds = ens.Buckets.Thresholds(j)
		}
		if err := binary.Write(w, binary.BigEndian, int32(len(thresholds))); err != nil {
			return err
		}
		for _, t := range thresholds {
			if err := binary.Write(w, binary.BigEndian, t); err != nil {
				return err
			}
		}
	}

	if err := binary.Write(w, binary.BigEndian, int32(len(ens.Trees))); err != nil {
		return err
	}
	for _, tree := range ens.Trees {
		if err := encodeNode(w, tree.Root); err != nil {
			return err
		}
	}
	return nil
}

func encodeNode(w io.Writer, n *gbdt.TreeNode) error {
	if n.IsLeaf() {
		if err := writeByte(w, tagLeaf); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, int32(len(n.Beta))); err != nil {
			return err
		}
		for _, b := range n.Beta {
			if err := binary.Write(w, binary.BigEndian, b); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeByte(w, tagInternal); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(n.Feature)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, n.Threshold); err != nil {
		return err
	}
	if err := encodeNode(w, n.Left); err != nil {
		return err
	}
	return encodeNode(w, n.Right)
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

// DecodeFrom reads a wire-format model from r, validating the magic and
// format version first (§7's FormatMismatch).
func DecodeFrom(r io.Reader) (*gbdt.Ensemble, error) {
	var gotMagic uint32
	if err := binary.Read(r, binary.BigEndian, &gotMagic); err != nil {
		return nil, err
	}
	var gotVersion uint16
	if err := binary.Read(r, binary.BigEndian, &gotVersion); err != nil {
		return nil, err
	}
	if gotMagic != magic || gotVersion != formatVersion {
		return nil, ErrFormatMismatch
	}

	var lossByte uint8
	if err := binary.Read(r, binary.BigEndian, &lossByte); err != nil {
		return nil, err
	}
	var eta, base float64
	var interDim, extraDim, threadsNum int32

	if err := binary.Read(r, binary.BigEndian, &eta); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &interDim); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &extraDim); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &base); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &threadsNum); err != nil {
		return nil, err
	}

	thresholds := make([][]float64, interDim)
	for j := 0; j < int(interDim); j++ {
		var count int32
		if err := binary.Read(r, binary.BigEndian, &count); err != nil {
			return nil, err
		}
		th := make([]float64, count)
		for k := range th {
			if err := binary.Read(r, binary.BigEndian, &th[k]); err != nil {
				return nil, err
			}
		}
		thresholds[j] = th
	}

	var treeCount int32
	if err := binary.Read(r, binary.BigEndian, &treeCount); err != nil {
		return nil, err
	}
	trees := make([]*gbdt.Tree, treeCount)
	for i := range trees {
		root, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		trees[i] = &gbdt.Tree{Root: root}
	}

	return &gbdt.Ensemble{
		Trees:          trees,
		LearningRate:   eta,
		Loss:           gbdt.LossKind(lossByte),
		BasePrediction: base,
		InterDim:       int(interDim),
		ExtraDim:       int(extraDim),
		Buckets:        bucket.FromThresholds(thresholds),
		ThreadsNum:     int(threadsNum),
	}, nil
}

func decodeNode(r io.Reader) (*gbdt.TreeNode, error) {
	tag := make([]byte, 1)
	if _, err := io.ReadFull(r, tag); err != nil {
		return nil, err
	}

	if tag[0] == tagLeaf {
		var q int32
		if err := binary.Read(r, binary.BigEndian, &q); err != nil {
			return nil, err
		}
		beta := make(gbdt.LeafCoeff, q)
		for i := range beta {
			if err := binary.Read(r, binary.BigEndian, &beta[i]); err != nil {
				return nil, err
			}
		}
		return gbdt.NewLeafNode(beta), nil
	}

	var feature int32
	var threshold float64
	if err := binary.Read(r, binary.BigEndian, &feature); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &threshold); err != nil {
		return nil, err
	}
	left, err := decodeNode(r)
	if err != nil {
		return nil, err
	}
	right, err := decodeNode(r)
	if err != nil {
		return nil, err
	}
	return gbdt.NewInternalNode(int(feature), threshold, left, right), nil
}
