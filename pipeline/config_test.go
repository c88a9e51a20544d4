package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/estatekit/core"
)

const sampleYAML = `
pipeline:
  name: demo
  nodes:
    - type: noop
      config:
        tag: hello
    - type: noop
      config:
        tag: world
`

// noopNode 只透传 items，记录构造时的 tag。
type noopNode struct{ tag string }

func (n *noopNode) Name() string { return "noop." + n.tag }
func (n *noopNode) Kind() Kind   { return KindPostProcess }
func (n *noopNode) Process(_ context.Context, _ *core.QueryContext, items []*core.Item) ([]*core.Item, error) {
	return items, nil
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if cfg.Pipeline.Name != "demo" {
		t.Errorf("name = %q, want demo", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(cfg.Pipeline.Nodes))
	}
	if cfg.Pipeline.Nodes[0].Config["tag"] != "hello" {
		t.Errorf("node config = %v", cfg.Pipeline.Nodes[0].Config)
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("noop", func(cfg map[string]interface{}) (Node, error) {
		tag, _ := cfg["tag"].(string)
		if tag == "" {
			return nil, fmt.Errorf("tag not found")
		}
		return &noopNode{tag: tag}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Name = "demo"
	cfg.Pipeline.Nodes = []NodeConfig{
		{Type: "noop", Config: map[string]interface{}{"tag": "hello"}},
	}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].Name() != "noop.hello" {
		t.Errorf("nodes = %v", p.Nodes)
	}

	t.Run("unknown type errors", func(t *testing.T) {
		cfg.Pipeline.Nodes = []NodeConfig{{Type: "mystery"}}
		if _, err := cfg.BuildPipeline(factory); err == nil {
			t.Error("BuildPipeline() error = nil, want unknown type")
		}
	})
}
