package compiler

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"

	"github.com/Norgate-AV/kfxc/internal/artifact"
	"github.com/Norgate-AV/kfxc/internal/platform"
)

// Translate compiles WGSL source into one native shader per entry point
// for the profile's backend.
func Translate(source string, profile platform.Profile) ([]artifact.Shader, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}

	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("lower error: %w", err)
	}

	errs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %w", errs[0])
	}

	if len(module.EntryPoints) == 0 {
		return nil, fmt.Errorf("effect has no entry points")
	}

	shaders := make([]artifact.Shader, 0, len(module.EntryPoints))
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]

		shader, err := translateEntryPoint(module, ep, profile)
		if err != nil {
			return nil, fmt.Errorf("entry point %q: %w", ep.Name, err)
		}

		shaders = append(shaders, shader)
	}

	return shaders, nil
}

func translateEntryPoint(module *ir.Module, ep *ir.EntryPoint, profile platform.Profile) (artifact.Shader, error) {
	shader := artifact.Shader{
		Name:  ep.Name,
		Stage: StageName(ep.Stage),
	}

	switch profile.Backend {
	case platform.BackendD3D11:
		if ep.Stage == ir.StageCompute && profile.FeatureLevel < platform.FeatureLevel11_0 {
			return shader, fmt.Errorf("compute shaders require feature level 11_0, have %s", profile.FeatureLevel)
		}

		opts := hlsl.DefaultOptions()
		opts.ShaderModel = hlsl.ShaderModel5_0
		opts.EntryPoint = ep.Name

		code, _, err := hlsl.Compile(module, opts)
		if err != nil {
			return shader, err
		}

		shader.Language = "hlsl 5_0"
		shader.Code = code

	case platform.BackendOpenGL, platform.BackendOpenGLES:
		opts := glsl.DefaultOptions()
		opts.EntryPoint = ep.Name
		opts.LangVersion = glslVersion(profile.Backend, ep.Stage)

		code, _, err := glsl.Compile(module, opts)
		if err != nil {
			return shader, err
		}

		shader.Language = "glsl " + opts.LangVersion.String()
		shader.Code = code

	default:
		return shader, fmt.Errorf("no shader translation for backend %s", profile.Backend)
	}

	return shader, nil
}

// glslVersion picks the lowest GLSL version that supports the stage.
// Compute needs GL 4.3 or ES 3.1.
func glslVersion(b platform.Backend, stage ir.ShaderStage) glsl.Version {
	if b == platform.BackendOpenGLES {
		if stage == ir.StageCompute {
			return glsl.VersionES310
		}

		return glsl.VersionES300
	}

	if stage == ir.StageCompute {
		return glsl.Version430
	}

	return glsl.Version330
}

func StageName(s ir.ShaderStage) string {
	switch s {
	case ir.StageVertex:
		return "vertex"
	case ir.StageFragment:
		return "fragment"
	case ir.StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("stage(%d)", s)
	}
}
