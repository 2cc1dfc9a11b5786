package rendering

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

//go:embed all:shaders
var __shaders__ embed.FS

type shader struct {
	Handle     uint32
	Type       uint32
	SourceCode string
}

var (
	shadersSources  map[string][]*shader
	shadersPrograms map[string]uint32
)

// Shaders is the built-in shader tree; each directory is one program.
func Shaders() fs.FS {
	sub, err := fs.Sub(__shaders__, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadShaders reads every directory of f holding N.type.glsl files as a
// program named after the directory.
func LoadShaders(f fs.FS) error {
	shadersSources = make(map[string][]*shader)
	return fs.WalkDir(f, ".", func(name string, entry fs.DirEntry, err error) error {
		return loadShaderDirectory(f, name, entry, err)
	})
}

func CompileShaders() error {
	if err := buildShaders(); err != nil {
		return err
	}
	if err := linkShaders(); err != nil {
		return err
	}

	for _, sources := range shadersSources {
		for _, shader := range sources {
			gl.DeleteShader(shader.Handle)
			shader.Handle = 0
		}
	}

	shadersSources = nil
	return nil
}

// Program returns the handle of a linked program, or 0.
func Program(program string) uint32 {
	return shadersPrograms[program]
}

func UseProgram(program string) {
	if shadersPrograms == nil {
		return
	}
	if _, ok := shadersPrograms[program]; !ok {
		return
	}
	gl.UseProgram(shadersPrograms[program])
}

func DeletePrograms() {
	for _, program := range shadersPrograms {
		gl.DeleteProgram(program)
	}
	shadersPrograms = nil
}

func shaderType(kind string) (uint32, error) {
	switch kind {
	case "vertex":
		return gl.VERTEX_SHADER, nil
	case "fragment":
		return gl.FRAGMENT_SHADER, nil
	case "geometry":
		return gl.GEOMETRY_SHADER, nil
	}
	return 0, fmt.Errorf("unknown shader type: %s", kind)
}

func loadShaderDirectory(fsys fs.FS, dir string, entry fs.DirEntry, err error) error {
	if err != nil {
		return err
	}
	if !entry.IsDir() {
		return nil
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	tempShaders := make(map[int]*shader)
	maxSeq := -1
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".glsl" {
			continue
		}

		p := strings.Split(name, ".")
		if len(p) != 3 {
			return fmt.Errorf("invalid shader file name: %s", name)
		}
		typ, err := shaderType(p[1])
		if err != nil {
			return err
		}
		seq, err := strconv.Atoi(p[0])
		if err != nil || seq < 0 {
			return fmt.Errorf("invalid shader sequence number: %s", p[0])
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return err
		}
		tempShaders[seq] = &shader{
			Type:       typ,
			SourceCode: string(data),
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	// directories without shaders only group programs
	if maxSeq == -1 {
		return nil
	}

	finalShaders := make([]*shader, maxSeq+1)
	for i := 0; i <= maxSeq; i++ {
		shader, ok := tempShaders[i]
		if !ok {
			return fmt.Errorf("missing shader with sequence number: %d in directory: %s", i, dir)
		}
		finalShaders[i] = shader
	}

	shadersSources[dir] = finalShaders
	return nil
}

func buildShaders() error {
	for name, sources := range shadersSources {
		for _, shader := range sources {
			shader.Handle = gl.CreateShader(shader.Type)
			if shader.Handle == 0 {
				return fmt.Errorf("failed to create shader handle for %s", name)
			}

			csources, free := gl.Strs(shader.SourceCode + "\x00")
			gl.ShaderSource(shader.Handle, 1, csources, nil)
			free()
			gl.CompileShader(shader.Handle)

			var status int32
			gl.GetShaderiv(shader.Handle, gl.COMPILE_STATUS, &status)
			if status == gl.FALSE {
				var logLength int32
				gl.GetShaderiv(shader.Handle, gl.INFO_LOG_LENGTH, &logLength)
				log := infoLog(logLength, func(buf *uint8) {
					gl.GetShaderInfoLog(shader.Handle, logLength, nil, buf)
				})

				gl.DeleteShader(shader.Handle)
				return fmt.Errorf("failed to compile shader %s:\n%s", name, log)
			}
		}
	}
	return nil
}

func linkShaders() error {
	shadersPrograms = make(map[string]uint32)
	for name, sources := range shadersSources {
		program := gl.CreateProgram()
		for _, shader := range sources {
			gl.AttachShader(program, shader.Handle)
		}
		gl.LinkProgram(program)

		var status int32
		gl.GetProgramiv(program, gl.LINK_STATUS, &status)
		if status == gl.FALSE {
			var logLength int32
			gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
			log := infoLog(logLength, func(buf *uint8) {
				gl.GetProgramInfoLog(program, logLength, nil, buf)
			})

			gl.DeleteProgram(program)
			return fmt.Errorf("failed to link program %s:\n%s", name, log)
		}
		shadersPrograms[name] = program
	}
	return nil
}

func infoLog(length int32, read func(*uint8)) string {
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	read((*uint8)(gl.Ptr(&buf[0])))
	return gl.GoStr((*uint8)(gl.Ptr(&buf[0])))
}
