package dds

// SurfaceSlice locates one (surface, level) image inside the payload
// region that follows the headers. Offsets are relative to the start of
// that region, strictly increasing and non-overlapping.
type SurfaceSlice struct {
	Surface int   // 0-based face or array element
	Level   int   // 0-based mip level, 0 is full resolution
	Offset  int64 // from the start of the payload region
	Length  int64 // block-compressed byte length
}

// MipExtent returns a pixel dimension shrunk to the given mip level, never
// below one. Negative levels are treated as zero.
func MipExtent(extent, level int) int {
	if level < 0 {
		level = 0
	}
	return max(1, extent>>level)
}

// LevelSize returns the byte size of one block-compressed image. Block
// rounding never drops below one block in either direction, so every mip
// level occupies at least one block.
func LevelSize(width, height, blockSize int) int64 {
	blocksAcross := max(1, (width+3)/4)
	blocksDown := max(1, (height+3)/4)
	return int64(blocksDown) * int64(blocksAcross) * int64(blockSize)
}

// PlanLayout computes the position of every (surface, level) image in the
// payload region. Iteration is surface-major, level-minor with cumulative
// offsets; this order is the physical byte layout of the file and must be
// preserved exactly. Callers must ensure width and height are positive.
func PlanLayout(width, height, surfaceCount, levelCount, blockSize int) []SurfaceSlice {
	plan := make([]SurfaceSlice, 0, surfaceCount*levelCount)
	var offset int64
	for surface := 0; surface < surfaceCount; surface++ {
		for level := 0; level < levelCount; level++ {
			length := LevelSize(MipExtent(width, level), MipExtent(height, level), blockSize)
			plan = append(plan, SurfaceSlice{
				Surface: surface,
				Level:   level,
				Offset:  offset,
				Length:  length,
			})
			offset += length
		}
	}
	return plan
}
