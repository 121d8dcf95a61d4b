// ABOUTME: Vector encoding and cosine similarity for the chunk store
// ABOUTME: Embeddings are stored as little-endian float32 BLOBs
package sqlite

import (
	"encoding/binary"
	"math"
)

// vectorToBlob converts a float32 slice to a little-endian binary blob
func vectorToBlob(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to a float32 slice.
// Trailing bytes that do not form a whole float are ignored.
func blobToVector(blob []byte) []float32 {
	count := len(blob) / 4
	vector := make([]float32, count)
	for i := 0; i < count; i++ {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Returns 0.0 for empty, zero-norm or mismatched-dimension inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0.0
	}
	return sim
}
