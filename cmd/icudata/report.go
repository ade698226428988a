package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/jchantrell/icudata/internal/format"
	"github.com/jchantrell/icudata/internal/scan"
	"github.com/jchantrell/icudata/internal/source"
	"github.com/jchantrell/icudata/internal/version"
	"github.com/jchantrell/icudata/resb"
	"gopkg.in/yaml.v3"
)

type report struct {
	Path           string        `json:"path" yaml:"path"`
	Compressed     bool          `json:"compressed" yaml:"compressed"`
	Size           int64         `json:"size" yaml:"size"`
	Digest         string        `json:"blake3" yaml:"blake3"`
	Format         string        `json:"format" yaml:"format"`
	FormatName     string        `json:"format_name" yaml:"format_name"`
	Order          string        `json:"byte_order" yaml:"byte_order"`
	HeaderSize     uint16        `json:"header_size" yaml:"header_size"`
	DataInfoSize   uint16        `json:"data_info_size" yaml:"data_info_size"`
	FormatVersion  string        `json:"format_version" yaml:"format_version"`
	DataVersion    string        `json:"data_version" yaml:"data_version"`
	UnicodeRelease string        `json:"unicode_release" yaml:"unicode_release"`
	Bundle         *bundleReport `json:"bundle,omitempty" yaml:"bundle,omitempty"`
}

type bundleReport struct {
	RootResource           string `json:"root_resource" yaml:"root_resource"`
	IndexLength            uint32 `json:"index_length" yaml:"index_length"`
	KeysBottom             uint32 `json:"keys_bottom" yaml:"keys_bottom"`
	KeysTop                uint32 `json:"keys_top" yaml:"keys_top"`
	LocalKeyLimit          uint64 `json:"local_key_limit" yaml:"local_key_limit"`
	KeyCapacity            uint64 `json:"key_capacity" yaml:"key_capacity"`
	ResourcesTop           uint32 `json:"resources_top" yaml:"resources_top"`
	BundleTop              uint32 `json:"bundle_top" yaml:"bundle_top"`
	MaxOffset              int64  `json:"max_offset" yaml:"max_offset"`
	MaxTableLength         uint32 `json:"max_table_length" yaml:"max_table_length"`
	Top16Bit               uint32 `json:"top_16bit,omitempty" yaml:"top_16bit,omitempty"`
	PoolChecksum           uint32 `json:"pool_checksum,omitempty" yaml:"pool_checksum,omitempty"`
	NoFallback             bool   `json:"no_fallback" yaml:"no_fallback"`
	IsPoolBundle           bool   `json:"is_pool_bundle" yaml:"is_pool_bundle"`
	UsesPoolBundle         bool   `json:"uses_pool_bundle" yaml:"uses_pool_bundle"`
	PoolStringIndexLimit   uint32 `json:"pool_string_index_limit" yaml:"pool_string_index_limit"`
	PoolStringIndex16Limit uint32 `json:"pool_string_index_16_limit" yaml:"pool_string_index_16_limit"`
}

// buildReport validates f as format df, or as whatever its tag declares when
// auto is set.
func buildReport(f *source.File, df format.DataFormat, auto bool, opts ...resb.Option) (*report, error) {
	if auto {
		detected, err := scan.DetectFormat(f.Reader())
		if err != nil {
			return nil, err
		}
		df = detected
	}

	h, err := resb.ReadHeader(f.Reader(), df, opts...)
	if err != nil {
		return nil, err
	}

	rep := &report{
		Path:           f.Path,
		Compressed:     f.Compressed,
		Size:           f.Size(),
		Digest:         f.Digest(),
		Format:         h.Format.String(),
		FormatName:     h.Format.Name(),
		Order:          h.Order.String(),
		HeaderSize:     h.Size,
		DataInfoSize:   h.DataInfoSize,
		FormatVersion:  h.FormatVersion.String(),
		DataVersion:    h.DataVersion.String(),
		UnicodeRelease: version.Resolve(h.DataVersion).Release.String(),
	}

	if df != format.ResourceBundle {
		return rep, nil
	}

	rd, err := resb.Open(f.Reader(), df, opts...)
	if err != nil {
		return nil, err
	}

	idx := rd.Index()
	att := rd.Attributes()
	keys := rd.Keys()
	rep.Bundle = &bundleReport{
		RootResource:           fmt.Sprintf("0x%08x", rd.RootResource()),
		IndexLength:            idx.Length,
		KeysBottom:             keys.Bottom,
		KeysTop:                keys.Top,
		LocalKeyLimit:          keys.LocalLimit,
		KeyCapacity:            keys.Capacity,
		ResourcesTop:           idx.ResourcesTop,
		BundleTop:              idx.BundleTop,
		MaxOffset:              rd.MaxOffset(),
		MaxTableLength:         idx.MaxTableLength,
		Top16Bit:               idx.Top16Bit,
		PoolChecksum:           idx.PoolChecksum,
		NoFallback:             att.NoFallback,
		IsPoolBundle:           att.IsPoolBundle,
		UsesPoolBundle:         att.UsesPoolBundle,
		PoolStringIndexLimit:   att.PoolStringIndexLimit,
		PoolStringIndex16Limit: att.PoolStringIndex16Limit,
	}

	return rep, nil
}

func writeReport(w io.Writer, rep *report, output string) error {
	switch output {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return enc.Close()
	}

	row := func(name string, value any) {
		fmt.Fprintf(w, "%-26s %v\n", name, value)
	}

	row("Path", rep.Path)
	row("Compressed", rep.Compressed)
	row("Size", rep.Size)
	row("BLAKE3", rep.Digest)
	row("Format", fmt.Sprintf("%s (%s)", rep.Format, rep.FormatName))
	row("Byte order", rep.Order)
	row("Header size", rep.HeaderSize)
	row("Data info size", rep.DataInfoSize)
	row("Format version", rep.FormatVersion)
	row("Data version", fmt.Sprintf("%s (%s)", rep.DataVersion, rep.UnicodeRelease))

	if b := rep.Bundle; b != nil {
		row("Root resource", b.RootResource)
		row("Index length", b.IndexLength)
		row("Keys", fmt.Sprintf("%d..%d", b.KeysBottom, b.KeysTop))
		row("Local key limit", b.LocalKeyLimit)
		row("Key capacity", b.KeyCapacity)
		row("Resources top", b.ResourcesTop)
		row("Bundle top", b.BundleTop)
		row("Max offset", b.MaxOffset)
		row("Max table length", b.MaxTableLength)
		row("No fallback", b.NoFallback)
		row("Pool bundle", b.IsPoolBundle)
		row("Uses pool bundle", b.UsesPoolBundle)
		row("Pool string index limit", b.PoolStringIndexLimit)
		row("Pool 16-bit index limit", b.PoolStringIndex16Limit)
	}

	return nil
}
