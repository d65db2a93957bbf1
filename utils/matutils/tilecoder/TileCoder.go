// Package tilecoder implements tile coding of vectors
package tilecoder

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/samuelfneumann/gomario/utils/floatutils"
)

// Controls tiling offsets. For each dimension, tilings are offset by
// randomly sampling from a uniform distribution with support
// [- tiling width/OffsetDiv, tiling width/OffsetDiv]
const OffsetDiv float64 = 1.5

// TileCoder implements functionality for tile coding a vector. Tile
// coding takes a low-dimensional vector and changes it into a large,
// sparse vector consisting of only 0's and 1's. Each 1 represents the
// tile of some tiling which the original vector falls in. For example:
//
//	[0.5, 0.1] -> [0, 0, 0, 1, 0, 0, 1, 0]
//
// Each tiling fully tiles the bounded space between the minimum and
// maximum dimensions, and vectors outside this space are placed in the
// nearest tile. Tilings may use different numbers of tiles.
//
// If a bias unit is used, it is always the first feature of the
// tile-coded representation.
type TileCoder struct {
	minDims     mat.Vector
	offsets     *mat.Dense
	bins        [][]int
	binLengths  [][]float64
	starts      []int
	length      int
	includeBias bool
}

// New creates and returns a new TileCoder. The minDims and maxDims
// arguments are the bounds on each dimension between which tilings
// will be placed.
//
// The bins argument determines both the number of tilings to use and
// the number of tiles per each tiling: bins[i][j] is the number of
// tiles of tiling i along dimension j. For example, if
// bins := [][]int{{2, 2}, {4, 3}}, then the TileCoder uses a 2x2 tiling
// and a 4x3 tiling.
//
// New panics if the bins do not match the dimensions of minDims and
// maxDims, or if any dimension is empty.
func New(minDims, maxDims mat.Vector, bins [][]int, seed uint64,
	includeBias bool) *TileCoder {
	if minDims.Len() != maxDims.Len() {
		panic(fmt.Sprintf("new: minimum has %d dimensions but maximum "+
			"has %d", minDims.Len(), maxDims.Len()))
	}
	if len(bins) == 0 {
		panic("new: at least one tiling is needed")
	}

	dims := minDims.Len()
	var bounds []r1.Interval
	binLengths := make([][]float64, len(bins))
	starts := make([]int, len(bins))

	length := 0
	if includeBias {
		length = 1
	}

	for i, tiling := range bins {
		if len(tiling) != dims {
			panic(fmt.Sprintf("new: tiling %d has %d dimensions, want %d",
				i, len(tiling), dims))
		}

		binLengths[i] = make([]float64, dims)
		tiles := 1
		for j, n := range tiling {
			width := maxDims.AtVec(j) - minDims.AtVec(j)
			if n < 1 || width <= 0 {
				panic(fmt.Sprintf("new: dimension %d of tiling %d has %d "+
					"tiles over width %v", j, i, n, width))
			}

			binLengths[i][j] = width / float64(n)
			bound := binLengths[i][j] / OffsetDiv
			bounds = append(bounds, r1.Interval{Min: -bound, Max: bound})
			tiles *= n
		}

		starts[i] = length
		length += tiles
	}

	// Tiling offsets, one row per tiling
	u := distmv.NewUniform(bounds, rand.NewSource(seed))
	samples := mat.NewDense(1, len(bounds), nil)
	samplemv.IID{Dist: u}.Sample(samples)
	offsets := mat.NewDense(len(bins), dims, samples.RawRowView(0))

	return &TileCoder{
		minDims:     mat.VecDenseCopyOf(minDims),
		offsets:     offsets,
		bins:        bins,
		binLengths:  binLengths,
		starts:      starts,
		length:      length,
		includeBias: includeBias,
	}
}

// encodeWithTiling returns the index of the feature which is 1.0 when
// v is encoded with the given tiling
func (t *TileCoder) encodeWithTiling(v mat.Vector, tiling int) int {
	index := 0
	for j, n := range t.bins[tiling] {
		data := v.AtVec(j) + t.offsets.At(tiling, j) - t.minDims.AtVec(j)
		tile := math.Floor(data / t.binLengths[tiling][j])
		tile = floatutils.Clip(tile, 0, float64(n-1))

		index = index*n + int(tile)
	}
	return t.starts[tiling] + index
}

// EncodeIndices returns the indices of the non-zero features in the
// tile-coded representation of v, as floats. The bias unit, if used,
// is the first index.
func (t *TileCoder) EncodeIndices(v mat.Vector) []float64 {
	if v.Len() != t.minDims.Len() {
		panic(fmt.Sprintf("encodeIndices: vector has %d dimensions, want %d",
			v.Len(), t.minDims.Len()))
	}

	indices := make([]float64, 0, t.NumIndices())
	if t.includeBias {
		indices = append(indices, 0)
	}
	for i := range t.bins {
		indices = append(indices, float64(t.encodeWithTiling(v, i)))
	}
	return indices
}

// Encode encodes a single vector as a tile-coded vector
func (t *TileCoder) Encode(v mat.Vector) *mat.VecDense {
	tileCoded := mat.NewVecDense(t.VecLength(), nil)
	for _, index := range t.EncodeIndices(v) {
		tileCoded.SetVec(int(index), 1.0)
	}
	return tileCoded
}

// String returns a string representation of a *TileCoder
func (t *TileCoder) String() string {
	return fmt.Sprintf("Tilings %d  |  Tiles: %v", len(t.bins), t.bins)
}

// VecLength returns the number of features in a tile-coded vector
func (t *TileCoder) VecLength() int {
	return t.length
}

// NumTilings returns the number of tilings the tile coder uses for
// encoding vectors
func (t *TileCoder) NumTilings() int {
	return len(t.bins)
}

// NumIndices returns the number of non-zero features in a tile-coded
// vector
func (t *TileCoder) NumIndices() int {
	if t.includeBias {
		return len(t.bins) + 1
	}
	return len(t.bins)
}
