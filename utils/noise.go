package utils

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/voxelsplace/mcmodel/source"
	"github.com/voxelsplace/mcmodel/vopl"
	"github.com/voxelsplace/mcmodel/voxel"
)

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// pickCells returns want distinct indices in [0, total), chosen with a
// partial Fisher-Yates shuffle.
func pickCells(total int, percentage float64, r *rand.Rand) []int {
	want := int(float64(total)*(clampPercentage(percentage)/100.0) + 0.5)
	if want > total {
		want = total
	}
	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < want; i++ {
		j := i + r.Intn(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:want]
}

// generateNoiseSet fills the given share of a dims grid with random cells.
func generateNoiseSet(dims voxel.Dimensions, percentage float64, r *rand.Rand) (*voxel.Set, error) {
	set, err := voxel.NewSet(dims)
	if err != nil {
		return nil, err
	}
	for _, i := range pickCells(dims.W*dims.H*dims.D, percentage, r) {
		x := i % dims.W
		y := (i / dims.W) % dims.H
		z := i / (dims.W * dims.H)
		if err := set.Add(voxel.Cell{X: x, Y: y, Z: z}); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// generateNoiseGrid fills the given share of a chunk with palette indices
// in [1, 63].
func generateNoiseGrid(percentage float64, r *rand.Rand) *vopl.Grid {
	var grid vopl.Grid
	for _, i := range pickCells(vopl.Width*vopl.Height*vopl.Depth, percentage, r) {
		y := i / (vopl.Width * vopl.Depth)
		rem := i % (vopl.Width * vopl.Depth)
		grid[y][rem/vopl.Depth][rem%vopl.Depth] = uint8(1 + r.Intn(63))
	}
	return &grid
}

// seededRand returns a generator for seed, or a time-seeded one for 0.
func seededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RunGenerateNoiseJSON writes a structured voxel description of a dims grid
// with the given percentage of random cells filled.
func RunGenerateNoiseJSON(dims voxel.Dimensions, percentage float64, seed int64, outPath string, log *slog.Logger) error {
	set, err := generateNoiseSet(dims, percentage, seededRand(seed))
	if err != nil {
		return err
	}
	data, err := source.EncodeStructured(set)
	if err != nil {
		return err
	}
	if err := atomicWrite(outPath, data); err != nil {
		return err
	}
	logger(log).Info("generated noise", "voxels", set.Len(), "dimension", dims.String(), "path", outPath)
	return nil
}

// RunGenerateNoisePack writes a zstd .voplpack of amount random chunks, each
// with a fill percentage drawn uniformly from [percentageMin, percentageMax].
func RunGenerateNoisePack(percentageMin, percentageMax float64, amount int, seed int64, outPath string, log *slog.Logger) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	percentageMin, percentageMax = clampPercentage(percentageMin), clampPercentage(percentageMax)
	if percentageMax < percentageMin {
		percentageMin, percentageMax = percentageMax, percentageMin
	}

	r := seededRand(seed)
	pack := &vopl.Pack{}
	for i := 0; i < amount; i++ {
		perc := percentageMin
		if percentageMax > percentageMin {
			perc = percentageMin + r.Float64()*(percentageMax-percentageMin)
		}
		hdr, enc, payload, err := vopl.ParseChunk(vopl.EncodeChunk(generateNoiseGrid(perc, r)))
		if err != nil {
			return err
		}
		pack.Header = hdr
		pack.Entries = append(pack.Entries, vopl.PackEntry{Name: fmt.Sprintf("%d.vopl", i), Enc: enc, Payload: payload})
	}
	data, err := pack.Marshal(vopl.PackCompZstd)
	if err != nil {
		return err
	}
	if err := atomicWrite(outPath, data); err != nil {
		return err
	}
	logger(log).Info("generated noise pack", "entries", amount, "bytes", len(data), "path", outPath)
	return nil
}
