package persist

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/tarstars/gbdte/bucket"
	"github.com/tarstars/gbdte/poisson"
)

// magicPoisson distinguishes a poisson model file from a gbdt one so Load
// callers get ErrFormatMismatch rather than silently misparsing bytes.
const magicPoisson uint32 = 0x67626470 // "gbdp"

// SavePoisson writes ens to path, mirroring Save's wire layout minus the
// loss-kind byte (the Poisson variant has exactly one loss).
func SavePoisson(path string, ens *poisson.Ensemble) error {
	f, err := os.Create(path)
	if err != nil {
		return ioErrorf("SavePoisson", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := EncodeToPoisson(w, ens); err != nil {
		return ioErrorf("SavePoisson", err)
	}
	if err := w.Flush(); err != nil {
		return ioErrorf("SavePoisson", err)
	}
	return f.Close()
}

// LoadPoisson reads a model previously written by SavePoisson.
func LoadPoisson(path string) (*poisson.Ensemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErrorf("LoadPoisson", err)
	}
	defer f.Close()

	ens, err := DecodeFromPoisson(bufio.NewReader(f))
	if err != nil {
		return nil, ioErrorf("LoadPoisson", err)
	}
	return ens, nil
}

// EncodeToPoisson writes ens's wire representation to w.
func EncodeToPoisson(w io.Writer, ens *poisson.Ensemble) error {
	if err := binary.Write(w, binary.BigEndian, magicPoisson); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, formatVersion); err != nil {
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

// DecodeFromPoisson reads a wire-format poisson model from r.
func DecodeFromPoisson(r io.Reader) (*poisson.Ensemble, error) {
	var gotMagic uint32
	if err := binary.Read(r, binary.BigEndian, &gotMagic); err != nil {
		return nil, err
	}
	var gotVersion uint16
	if err := binary.Read(r, binary.BigEndian, &gotVersion); err != nil {
		return nil, err
	}
	if gotMagic != magicPoisson || gotVersion != formatVersion {
		return nil, ErrFormatMismatch
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
	trees := make([]*poisson.Tree, treeCount)
	for i := range trees {
		root, err := decodeNodePoisson(r)
		if err != nil {
			return nil, err
		}
		trees[i] = &poisson.Tree{Root: root}
	}

	return &poisson.Ensemble{
		Trees:          trees,
		LearningRate:   eta,
		BasePrediction: base,
		InterDim:       int(interDim),
		ExtraDim:       int(extraDim),
		Buckets:        bucket.FromThresholds(thresholds),
		ThreadsNum:     int(threadsNum),
	}, nil
}

func decodeNodePoisson(r io.Reader) (*poisson.TreeNode, error) {
	tag := make([]byte, 1)
	if _, err := io.ReadFull(r, tag); err != nil {
		return nil, err
	}

	if tag[0] == tagLeaf {
		var q int32
		if err := binary.Read(r, binary.BigEndian, &q); err != nil {
			return nil, err
		}
		beta := make(poisson.LeafCoeff, q)
		for i := range beta {
			if err := binary.Read(r, binary.BigEndian, &beta[i]); err != nil {
				return nil, err
			}
		}
		return poisson.NewLeafNode(beta), nil
	}

	var feature int32
	var threshold float64
	if err := binary.Read(r, binary.BigEndian, &feature); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &threshold); err != nil {
		return nil, err
	}
	left, err := decodeNodePoisson(r)
	if err != nil {
		return nil, err
	}
	right, err := decodeNodePoisson(r)
	if err != nil {
		return nil, err
	}
	return poisson.NewInternalNode(int(feature), threshold, left, right), nil
}
