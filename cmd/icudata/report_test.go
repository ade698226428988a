package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/jchantrell/icudata/internal/format"
	"github.com/jchantrell/icudata/internal/source"
	"github.com/jchantrell/icudata/resb"
	"gopkg.in/yaml.v3"
)

var legacyBundle = []byte{
	0x00, 0x20, 0xda, 0x27, 0x00, 0x14, 0x00, 0x00,
	0x01, 0x00, 0x02, 0x00, 0x52, 0x65, 0x73, 0x42,
	0x03, 0x00, 0x00, 0x00, 0x01, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x20, 0x00, 0x18, 0x78, 0x00, 0xcb, 0x92, 0x08,
	0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x18, 0x92,
}

func legacyFile() *source.File {
	return &source.File{Path: "root.res", Data: legacyBundle}
}

func TestBuildReport(t *testing.T) {
	rep, err := buildReport(legacyFile(), 0, true, resb.WithLegacyCompat())
	if err != nil {
		t.Fatalf("buildReport failed: %v", err)
	}

	if rep.Format != "ResB" || rep.FormatName != "ResourceBundle" {
		t.Errorf("format = %s/%s", rep.Format, rep.FormatName)
	}
	if rep.DataVersion != "1.4.0.0" || rep.UnicodeRelease != "unknown" {
		t.Errorf("data version = %s (%s)", rep.DataVersion, rep.UnicodeRelease)
	}
	if rep.Bundle == nil || rep.Bundle.RootResource != "0x20001878" {
		t.Fatalf("bundle = %+v", rep.Bundle)
	}
	if rep.Bundle.IndexLength != 8 || rep.Bundle.KeysBottom != 9 {
		t.Errorf("bundle = %+v", rep.Bundle)
	}
}

func TestBuildReportDeclaredFormat(t *testing.T) {
	_, err := buildReport(legacyFile(), format.Collation, false)
	if !errors.Is(err, resb.ErrHeaderAuthentication) {
		t.Fatalf("expected ErrHeaderAuthentication, got %v", err)
	}
}

func TestWriteReport(t *testing.T) {
	rep, err := buildReport(legacyFile(), format.ResourceBundle, false, resb.WithLegacyCompat())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeReport(&buf, rep, "json"); err != nil {
			t.Fatal(err)
		}
		var got report
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if got.Bundle == nil || got.Bundle.BundleTop != rep.Bundle.BundleTop || got.Digest != rep.Digest {
			t.Errorf("decoded = %+v", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeReport(&buf, rep, "yaml"); err != nil {
			t.Fatal(err)
		}
		var got map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
		}
		if got["format"] != "ResB" || got["byte_order"] != "big-endian" {
			t.Errorf("decoded = %v", got)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeReport(&buf, rep, "text"); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"ResB (ResourceBundle)", "1.4.0.0 (unknown)", "0x20001878"} {
			if !strings.Contains(out, want) {
				t.Errorf("text report missing %q:\n%s", want, out)
			}
		}
	})
}
