package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is an element declaration with its properties in file order
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
}

// Element returns the element declaration with the given name
func (h *PLYHeader) Element(name string) (PLYElement, bool) {
	for _, e := range h.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return PLYElement{}, false
}

// ReadPLY parses an ASCII or binary PLY stream. Vertex positions and optional
// normals (nx, ny, nz) are read; polygons are fan-triangulated; other
// properties and elements are skipped.
func ReadPLY(r io.Reader) (*geometry.MeshData, error) {
	br := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = &asciiValueReader{r: br}
	case "binary_little_endian":
		values = &binaryValueReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{r: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	data := &geometry.MeshData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, data)
		case "face":
			err = readFaces(values, element, data)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read PLY %s data: %w", element.Name, err)
		}
	}

	return data, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("error reading header: %w", err)
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("header has no format line")
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Properties = append(last.Properties, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword %q", parts[0])
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop := PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}
		if getTypeSize(prop.ListType) == 0 || getTypeSize(prop.Type) == 0 {
			return PLYProperty{}, fmt.Errorf("unsupported data type in list %s", prop.Name)
		}
		return prop, nil
	}

	prop := PLYProperty{Type: parts[0], Name: parts[1]}
	if getTypeSize(prop.Type) == 0 {
		return PLYProperty{}, fmt.Errorf("unsupported data type: %s", prop.Type)
	}
	return prop, nil
}

func readVertices(values plyValueReader, element PLYElement, data *geometry.MeshData) error {
	position := [3]int{-1, -1, -1}
	normal := [3]int{-1, -1, -1}
	for i, prop := range element.Properties {
		switch prop.Name {
		case "x":
			position[0] = i
		case "y":
			position[1] = i
		case "z":
			position[2] = i
		case "nx":
			normal[0] = i
		case "ny":
			normal[1] = i
		case "nz":
			normal[2] = i
		}
	}
	if position[0] < 0 || position[1] < 0 || position[2] < 0 {
		return fmt.Errorf("vertex element lacks x, y or z")
	}
	hasNormals := normal[0] >= 0 && normal[1] >= 0 && normal[2] >= 0

	data.Positions = make([]core.Vec3, 0, element.Count)
	if hasNormals {
		data.Normals = make([]core.Vec3, 0, element.Count)
	}

	row := make([]float64, len(element.Properties))
	for v := 0; v < element.Count; v++ {
		for i, prop := range element.Properties {
			if prop.IsList {
				if _, err := readList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %w", v, err)
				}
				continue
			}
			value, err := values.Read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", v, err)
			}
			row[i] = value
		}

		data.Positions = append(data.Positions, core.NewVec3(row[position[0]], row[position[1]], row[position[2]]))
		if hasNormals {
			data.Normals = append(data.Normals, core.NewVec3(row[normal[0]], row[normal[1]], row[normal[2]]))
		}
	}
	return nil
}

func readFaces(values plyValueReader, element PLYElement, data *geometry.MeshData) error {
	data.Indices = make([]int, 0, element.Count*3) // Assuming triangular faces
	for f := 0; f < element.Count; f++ {
		for _, prop := range element.Properties {
			if !prop.IsList {
				if _, err := values.Read(prop.Type); err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				continue
			}

			list, err := readList(values, prop)
			if err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(list) < 3 {
				return fmt.Errorf("face %d has %d vertices", f, len(list))
			}
			for i := 1; i+1 < len(list); i++ {
				data.Indices = append(data.Indices, int(list[0]), int(list[i]), int(list[i+1]))
			}
		}
	}
	return nil
}

func skipElement(values plyValueReader, element PLYElement) error {
	for e := 0; e < element.Count; e++ {
		for _, prop := range element.Properties {
			var err error
			if prop.IsList {
				_, err = readList(values, prop)
			} else {
				_, err = values.Read(prop.Type)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func readList(values plyValueReader, prop PLYProperty) ([]float64, error) {
	count, err := values.Read(prop.ListType)
	if err != nil {
		return nil, err
	}
	if count < 0 || count > math.MaxInt32 {
		return nil, fmt.Errorf("invalid list length %v for %s", count, prop.Name)
	}
	list := make([]float64, int(count))
	for i := range list {
		if list[i], err = values.Read(prop.Type); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader reads one scalar of a PLY data type as float64
type plyValueReader interface {
	Read(dataType string) (float64, error)
}

type binaryValueReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValueReader) Read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	buf := b.buf[:size]
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "char", "int8":
		return float64(int8(buf[0])), nil
	default: // uchar, uint8
		return float64(buf[0]), nil
	}
}

// asciiValueReader reads whitespace-separated tokens across lines
type asciiValueReader struct {
	r      *bufio.Reader
	tokens []string
}

func (a *asciiValueReader) Read(dataType string) (float64, error) {
	for len(a.tokens) == 0 {
		line, err := a.r.ReadString('\n')
		a.tokens = strings.Fields(line)
		if err != nil {
			if len(a.tokens) > 0 {
				break
			}
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
	}

	token := a.tokens[0]
	a.tokens = a.tokens[1:]
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, token)
	}
	return value, nil
}

// WritePLY writes data as binary little-endian PLY with float positions,
// optional float normals and int vertex indices
func WritePLY(w io.Writer, data *geometry.MeshData) error {
	bw := bufio.NewWriter(w)
	hasNormals := len(data.Normals) == len(data.Positions) && len(data.Normals) > 0

	fmt.Fprintf(bw, "ply\nformat binary_little_endian 1.0\n")
	fmt.Fprintf(bw, "element vertex %d\n", len(data.Positions))
	fmt.Fprintf(bw, "property float x\nproperty float y\nproperty float z\n")
	if hasNormals {
		fmt.Fprintf(bw, "property float nx\nproperty float ny\nproperty float nz\n")
	}
	fmt.Fprintf(bw, "element face %d\n", data.TriangleCount())
	fmt.Fprintf(bw, "property list uchar int vertex_indices\nend_header\n")

	vertex := make([]float32, 0, 6)
	for i, p := range data.Positions {
		vertex = append(vertex[:0], float32(p.X), float32(p.Y), float32(p.Z))
		if hasNormals {
			n := data.Normals[i]
			vertex = append(vertex, float32(n.X), float32(n.Y), float32(n.Z))
		}
		if err := binary.Write(bw, binary.LittleEndian, vertex); err != nil {
			return err
		}
	}

	for i := 0; i+2 < len(data.Indices); i += 3 {
		if err := bw.WriteByte(3); err != nil {
			return err
		}
		face := [3]int32{int32(data.Indices[i]), int32(data.Indices[i+1]), int32(data.Indices[i+2])}
		if err := binary.Write(bw, binary.LittleEndian, face); err != nil {
			return err
		}
	}
	return bw.Flush()
}
