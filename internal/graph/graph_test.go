package graph

import (
	"encoding/json"
	"testing"
)

func TestSchemaGraph(t *testing.T) {
	g := NewSchemaGraph("star_schema", Layout{RankDir: "LR", FontSize: 10})
	g.AddNode(&Node{ID: "fact_x", Type: NodeTypeFact, Name: "fact_x", Rows: []Row{{Port: "user_key", Name: "user_key"}}})
	g.AddNode(&Node{ID: "dim_user", Type: NodeTypeDimension, Name: "dim_user"})
	g.AddNode(&Node{ID: "fact_x", Type: NodeTypeTable, Name: "duplicate"})
	g.AddEdge(&Edge{ID: "e", Type: EdgeTypeInferredFK, From: "fact_x", FromPort: "user_key", To: "dim_user"})

	if len(g.Nodes) != 2 {
		t.Fatalf("duplicate node should be ignored, got %d nodes", len(g.Nodes))
	}
	if g.GetNode("fact_x").Type != NodeTypeFact {
		t.Error("first node with an ID wins")
	}
	if g.GetNode("missing") != nil {
		t.Error("unknown ID should return nil")
	}
	if !g.GetNode("fact_x").HasPort("user_key") || g.GetNode("fact_x").HasPort("other") {
		t.Error("HasPort mismatch")
	}

	data, err := g.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var decoded struct {
		Name  string `json:"name"`
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Edges []struct {
			ToPort string `json:"to_port"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Name != "star_schema" || decoded.Nodes[0].ID != "fact_x" || decoded.Nodes[1].ID != "dim_user" {
		t.Errorf("node order lost in JSON: %s", data)
	}
	if decoded.Edges[0].ToPort != "" {
		t.Errorf("empty port should be omitted, got %q", decoded.Edges[0].ToPort)
	}
}
