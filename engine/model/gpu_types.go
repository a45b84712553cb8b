package model

import "unsafe"

// Vertex is the GPU vertex layout shared by every mesh: position at location 0 and normal at
// location 1. Size: 24 bytes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// VertexStride is the byte stride between consecutive vertices.
const VertexStride = uint64(unsafe.Sizeof(Vertex{}))

// NormalOffset is the byte offset of the normal within a Vertex.
const NormalOffset = uint64(unsafe.Offsetof(Vertex{}.Normal))
