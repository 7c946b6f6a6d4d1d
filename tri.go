package tri

import "github.com/gogpu/tri/internal/raster"

// Pipeline geometry. The triangle pipeline is fixed at the edges: three
// palette entries, three color slots, three vertices, and a compute
// workgroup sized to cover every slot in a single group.
const (
	// PaletteSize is the number of entries in the fixed color table.
	PaletteSize = raster.SlotCount

	// ColorSlots is the number of slots in the shared color buffer,
	// one per vertex.
	ColorSlots = raster.SlotCount

	// VertexCount is the number of vertices drawn per triangle.
	VertexCount = raster.SlotCount

	// WorkgroupSizeX is the x extent of the compute workgroup.
	// The y and z extents are 1.
	WorkgroupSizeX = raster.GroupSizeX
)

// Positions returns the fixed clip-space xy positions of the triangle's
// vertices in vertex-index order: the bottom apex first, then the upper
// right and upper left corners (clip space, y up).
func Positions() [VertexCount][2]float32 {
	return raster.Positions
}
