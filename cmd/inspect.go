package cmd

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/kfxc/internal/artifact"
	"github.com/Norgate-AV/kfxc/internal/backend"
	"github.com/Norgate-AV/kfxc/internal/cache"
	"github.com/Norgate-AV/kfxc/internal/platform"
)

var inspectCmd = &cobra.Command{
	Use:          "inspect <artifact>",
	Short:        "Show the header and contents of a compiled artifact",
	Args:         cobra.ExactArgs(1),
	RunE:         runInspect,
	SilenceUsage: true,
}

func init() {
	inspectCmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	inspectCmd.Flags().StringP("source", "s", "", "Effect source to compare against the recorded digest")
}

type shaderView struct {
	Name     string `json:"name" yaml:"name"`
	Stage    string `json:"stage" yaml:"stage"`
	Language string `json:"language" yaml:"language"`
	Size     int    `json:"size" yaml:"size"`
	Code     string `json:"code" yaml:"code"`
}

type artifactView struct {
	Path            string       `json:"path" yaml:"path"`
	Magic           string       `json:"magic" yaml:"magic"`
	FormatVersion   string       `json:"format_version" yaml:"format_version"`
	BackendTag      string       `json:"backend_tag" yaml:"backend_tag"`
	BackendVersion  string       `json:"backend_version" yaml:"backend_version"`
	SourceTimestamp uint64       `json:"source_timestamp" yaml:"source_timestamp"`
	SourceTime      string       `json:"source_time" yaml:"source_time"`
	Current         bool         `json:"current" yaml:"current"`
	Platforms       []string     `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	Platform        string       `json:"platform,omitempty" yaml:"platform,omitempty"`
	Backend         string       `json:"backend,omitempty" yaml:"backend,omitempty"`
	FeatureLevel    string       `json:"feature_level,omitempty" yaml:"feature_level,omitempty"`
	SourceDigest    string       `json:"source_digest,omitempty" yaml:"source_digest,omitempty"`
	Shaders         []shaderView `json:"shaders,omitempty" yaml:"shaders,omitempty"`
	SourcePath      string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
	SourceMatches   *bool        `json:"source_matches,omitempty" yaml:"source_matches,omitempty"`
}

func newArtifactView(path string, h artifact.Header, p *artifact.Payload) artifactView {
	v := artifactView{
		Path:            path,
		Magic:           backend.FourCCString(h.Magic),
		FormatVersion:   fmt.Sprintf("0x%04x", h.FormatVersion),
		BackendTag:      backend.FourCCString(h.BackendTag),
		BackendVersion:  fmt.Sprintf("0x%08x", h.BackendVersion),
		SourceTimestamp: h.SourceTimestamp,
		SourceTime:      time.Unix(int64(h.SourceTimestamp), 0).UTC().Format(time.RFC3339),
	}

	// The recorded backend pair rebuilt as a backend: if the expected identity
	// for it differs, magic or format version come from another build.
	recorded := backend.Static{FourCC: h.BackendTag, Version: h.BackendVersion}
	v.Current = artifact.Expect(recorded) == h.Identity()

	for _, token := range platform.Tokens() {
		profile, err := platform.Resolve(token)
		if err != nil {
			continue
		}

		if artifact.Expect(backend.New(profile)) == h.Identity() {
			v.Platforms = append(v.Platforms, token)
		}
	}

	if p == nil {
		return v
	}

	v.Platform = p.Platform
	v.Backend = p.Backend
	v.FeatureLevel = p.FeatureLevel
	v.SourceDigest = hex.EncodeToString(p.SourceDigest)

	for _, s := range p.Shaders {
		v.Shaders = append(v.Shaders, shaderView{
			Name:     s.Name,
			Stage:    s.Stage,
			Language: s.Language,
			Size:     len(s.Code),
			Code:     s.Code,
		})
	}

	return v
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")

	path, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrapf(err, errors.CodeInvalidInput, "cannot resolve %q", args[0])
	}

	fsys := osfs.New("/")

	h, p, err := artifact.Read(fsys, path)
	if err != nil {
		return errors.Wrapf(err, errors.CodeNotFound, "cannot read artifact %s", path)
	}

	v := newArtifactView(path, h, p)

	if source, _ := cmd.Flags().GetString("source"); source != "" {
		if err := compareSource(fsys, &v, p, source); err != nil {
			return err
		}
	}

	return writeArtifactView(cmd.OutOrStdout(), v, format)
}

// compareSource hashes the effect source and records whether it still
// matches the digest stored in the payload.
func compareSource(fsys billy.Basic, v *artifactView, p *artifact.Payload, source string) error {
	src, err := cache.ReadSource(fsys, source)
	if err != nil {
		return err
	}

	digest, err := cache.HashSource(fsys, src.Path)
	if err != nil {
		return errors.Wrapf(err, errors.CodeNotFound, "cannot hash %s", src.Path)
	}

	matches := p != nil && bytes.Equal(p.SourceDigest, digest[:])
	v.SourcePath = src.Path
	v.SourceMatches = &matches

	return nil
}

func writeArtifactView(w io.Writer, v artifactView, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()

	case "text":
		fmt.Fprintf(w, "Artifact:         %s\n", v.Path)
		fmt.Fprintf(w, "Magic:            %q\n", v.Magic)
		fmt.Fprintf(w, "Format version:   %s\n", v.FormatVersion)
		fmt.Fprintf(w, "Backend tag:      %q\n", v.BackendTag)
		fmt.Fprintf(w, "Backend version:  %s\n", v.BackendVersion)
		fmt.Fprintf(w, "Source timestamp: %d (%s)\n", v.SourceTimestamp, v.SourceTime)
		fmt.Fprintf(w, "Current format:   %t\n", v.Current)

		if len(v.Platforms) > 0 {
			fmt.Fprintf(w, "Built for:        %s\n", strings.Join(v.Platforms, ", "))
		}

		if v.Platform != "" {
			fmt.Fprintf(w, "Platform:         %s (%s", v.Platform, v.Backend)
			if v.FeatureLevel != "" {
				fmt.Fprintf(w, ", level %s", v.FeatureLevel)
			}
			fmt.Fprintln(w, ")")
			fmt.Fprintf(w, "Source digest:    %s\n", v.SourceDigest)
			fmt.Fprintf(w, "Shaders:          %d\n", len(v.Shaders))

			for _, s := range v.Shaders {
				fmt.Fprintf(w, "  %-16s %-9s %-14s %d bytes\n", s.Name, s.Stage, s.Language, s.Size)
			}
		}

		if v.SourceMatches != nil {
			fmt.Fprintf(w, "Source matches:   %t (%s)\n", *v.SourceMatches, v.SourcePath)
		}

		return nil

	default:
		return errors.Newf(errors.CodeInvalidInput, "unknown output format %q (want text, json or yaml)", format)
	}
}
