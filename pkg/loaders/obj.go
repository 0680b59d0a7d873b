package loaders

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// objVertex is one face corner: a position index and an optional normal index (-1 if absent)
type objVertex struct {
	position, normal int
}

// objReader accumulates OBJ statements into mesh arrays. OBJ indexes
// positions and normals separately, so every distinct (position, normal)
// pair becomes one mesh vertex.
type objReader struct {
	positions []core.Vec3
	normals   []core.Vec3

	corners []objVertex
	remap   map[objVertex]int
	indices []int

	missingNormals bool
}

// ReadOBJ parses Wavefront OBJ geometry. Polygons are fan-triangulated;
// texture coordinates, groups and materials are ignored. Normals are kept
// only when every face corner references one.
func ReadOBJ(r io.Reader) (*geometry.MeshData, error) {
	reader := &objReader{remap: make(map[objVertex]int)}

	lineNum := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "v":
			var v core.Vec3
			if v, err = parseVec3(lineTokens); err == nil {
				reader.positions = append(reader.positions, v)
			}
		case "vn":
			var n core.Vec3
			if n, err = parseVec3(lineTokens); err == nil {
				reader.normals = append(reader.normals, n)
			}
		case "f":
			err = reader.parseFace(lineTokens)
		}
		if err != nil {
			return nil, fmt.Errorf("obj line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return reader.meshData(), nil
}

func (r *objReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 vertices; got %d`, len(lineTokens)-1)
	}

	corners := make([]int, 0, len(lineTokens)-1)
	for arg, token := range lineTokens[1:] {
		vTokens := strings.Split(token, "/")
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		position, err := selectFaceCoordIndex(vTokens[0], len(r.positions))
		if err != nil {
			return fmt.Errorf("vertex index for face argument %d: %w", arg, err)
		}

		normal := -1
		if len(vTokens) > 2 && vTokens[2] != "" {
			if normal, err = selectFaceCoordIndex(vTokens[2], len(r.normals)); err != nil {
				return fmt.Errorf("normal index for face argument %d: %w", arg, err)
			}
		} else {
			r.missingNormals = true
		}

		corners = append(corners, r.vertex(objVertex{position: position, normal: normal}))
	}

	// Fan triangulation around the first corner
	for i := 1; i+1 < len(corners); i++ {
		r.indices = append(r.indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// vertex returns the mesh vertex index of a corner, allocating it on first use
func (r *objReader) vertex(corner objVertex) int {
	if idx, ok := r.remap[corner]; ok {
		return idx
	}
	idx := len(r.corners)
	r.corners = append(r.corners, corner)
	r.remap[corner] = idx
	return idx
}

func (r *objReader) meshData() *geometry.MeshData {
	data := &geometry.MeshData{
		Positions: make([]core.Vec3, len(r.corners)),
		Indices:   r.indices,
	}
	for i, c := range r.corners {
		data.Positions[i] = r.positions[c.position]
	}
	if !r.missingNormals && len(r.corners) > 0 {
		data.Normals = make([]core.Vec3, len(r.corners))
		for i, c := range r.corners {
			data.Normals[i] = r.normals[c.normal].Normalize()
		}
	}
	return data
}

// selectFaceCoordIndex converts a 1-based OBJ index, or a negative index
// counting back from the most recent element, into a 0-based offset
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.Atoi(indexToken)
	if err != nil {
		return -1, err
	}

	offset := index - 1
	if index < 0 {
		offset = coordListLen + index
	}
	if index == 0 || offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index %d out of bounds for %d elements", index, coordListLen)
	}
	return offset, nil
}

func parseVec3(lineTokens []string) (core.Vec3, error) {
	if len(lineTokens) < 4 {
		return core.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var coords [3]float64
	for i := range coords {
		coord, err := strconv.ParseFloat(lineTokens[i+1], 64)
		if err != nil {
			return core.Vec3{}, err
		}
		coords[i] = coord
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

// WriteOBJ writes positions, normals and triangles as OBJ text
func WriteOBJ(w io.Writer, data *geometry.MeshData) error {
	bw := bufio.NewWriter(w)
	for _, p := range data.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	for _, n := range data.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", formatFloat(n.X), formatFloat(n.Y), formatFloat(n.Z))
	}

	hasNormals := len(data.Normals) > 0
	for i := 0; i+2 < len(data.Indices); i += 3 {
		a, b, c := data.Indices[i]+1, data.Indices[i+1]+1, data.Indices[i+2]+1
		if hasNormals {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}
	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
