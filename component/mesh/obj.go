package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/types"
)

// ObjParams selects a wavefront object file.
type ObjParams struct {
	File string `mapstructure:"file"`
}

// Decode obj mesh params.
func DecodeObjParams(props config.Props) (ObjParams, error) {
	var params ObjParams
	if err := config.Decode(props, &params); err != nil {
		return params, err
	}
	if params.File == "" {
		return params, fmt.Errorf("%w: obj meshes require a file", ErrInvalidMesh)
	}
	return params, nil
}

type objReader struct {
	path string

	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	params     Params
	hasNormals bool
	hasUVs     bool
}

// Parse the geometry of a wavefront object file into a single mesh. Groups
// and objects are merged. Polygonal faces are triangulated as fans. Face
// vertices that do not reference a normal fall back to the geometric normal.
// Material statements are ignored.
func ParseObj(r io.Reader, path string) (*Raw, error) {
	or := &objReader{path: path}
	if err := or.parse(r); err != nil {
		return nil, err
	}
	if !or.hasNormals {
		or.params.Normals = nil
	}
	if !or.hasUVs {
		or.params.UVs = nil
	}
	return New(or.params)
}

func (or *objReader) emitError(line int, msgFormat string, args ...interface{}) error {
	return fmt.Errorf("%w: [%s: %d] %s", ErrInvalidMesh, or.path, line, fmt.Sprintf(msgFormat, args...))
}

func (or *objReader) parse(r io.Reader) error {
	var lineNum int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return or.emitError(lineNum, err.Error())
			}
			or.vertexList = append(or.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return or.emitError(lineNum, err.Error())
			}
			or.normalList = append(or.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return or.emitError(lineNum, err.Error())
			}
			or.uvList = append(or.uvList, v)
		case "f":
			if err := or.parseFace(lineTokens); err != nil {
				return or.emitError(lineNum, err.Error())
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: [%s] %v", ErrInvalidMesh, or.path, err)
	}
	if len(or.params.Faces) == 0 {
		return fmt.Errorf("%w: [%s] no faces defined", ErrInvalidMesh, or.path)
	}
	return nil
}

// Parse a face definition with 3 or more "v", "v/vt", "v//vn" or "v/vt/vn"
// arguments. Every face vertex becomes a separate mesh vertex.
func (or *objReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	base := len(or.params.Positions) / 3
	expIndices := 0
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}
		offset, err := selectFaceCoordIndex(vTokens[0], len(or.vertexList))
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		v := or.vertexList[offset]
		or.params.Positions = append(or.params.Positions, v[0], v[1], v[2])

		var uv types.Vec2
		if expIndices > 1 && vTokens[1] != "" {
			if offset, err = selectFaceCoordIndex(vTokens[1], len(or.uvList)); err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			uv = or.uvList[offset]
			or.hasUVs = true
		}
		or.params.UVs = append(or.params.UVs, uv[0], uv[1])

		var n types.Vec3
		if expIndices > 2 && vTokens[2] != "" {
			if offset, err = selectFaceCoordIndex(vTokens[2], len(or.normalList)); err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			n = or.normalList[offset]
			or.hasNormals = true
		}
		or.params.Normals = append(or.params.Normals, n[0], n[1], n[2])
	}

	for k := 1; k < len(lineTokens)-2; k++ {
		or.params.Faces = append(or.params.Faces, base, base+k, base+k+1)
	}
	return nil
}

// Map a 1-based (or negative, relative to the end) coordinate index to an
// offset into a coordinate list.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index - 1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return offset, nil
}

func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
