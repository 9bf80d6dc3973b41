package diagram

import (
	"fmt"
	"reflect"
	"testing"

	"star-erd/internal/analyzer"
	"star-erd/internal/graph"
	"star-erd/internal/schema"
	"star-erd/internal/static"
)

func deviceLinkSnapshot(t *testing.T) *schema.Snapshot {
	t.Helper()
	pk := func(name string) schema.ColumnDef { return schema.ColumnDef{Name: name, Type: "INT64", Key: "PK"} }
	fk := func(name, ref string) schema.ColumnDef {
		return schema.ColumnDef{Name: name, Type: "INT64", Key: "FK", Ref: ref}
	}
	s, err := schema.FromDefinitions([]schema.TableDef{
		{Name: "dim_date", Columns: []schema.ColumnDef{pk("date_key")}},
		{Name: "dim_user", Columns: []schema.ColumnDef{pk("user_key")}},
		{Name: "dim_device", Columns: []schema.ColumnDef{pk("device_key")}},
		{Name: "dim_status", Columns: []schema.ColumnDef{pk("status_key")}},
		{Name: "fact_device_link", Columns: []schema.ColumnDef{
			fk("event_date_key", "dim_date.date_key"),
			fk("user_key", "dim_user.user_key"),
			fk("device_key", "dim_device.device_key"),
			fk("status_key", "dim_status.status_key"),
			{Name: "link_count", Type: "INT64"},
		}},
	})
	if err != nil {
		t.Fatalf("FromDefinitions: %v", err)
	}
	return s
}

func staticBuilder(s *schema.Snapshot, caps Caps) *Builder {
	return NewBuilder(analyzer.NewExplicitResolver(analyzer.NewRelationshipInferer(s)), caps)
}

func TestTableCard(t *testing.T) {
	s := deviceLinkSnapshot(t)
	fact, _ := s.Table("fact_device_link")

	g := staticBuilder(s, DefaultCaps()).TableCard(fact)
	if len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Fatalf("card should be one node without edges, got %d nodes %d edges", len(g.Nodes), len(g.Edges))
	}
	node := g.Nodes[0]
	if node.Type != graph.NodeTypeFact || !node.Nullable {
		t.Errorf("unexpected node %+v", node)
	}
	if len(node.Rows) != 5 || node.Rows[0].Name != "event_date_key" {
		t.Errorf("card rows should follow column order, got %v", node.Rows)
	}
	if g.Layout.RankDir != "TB" {
		t.Errorf("card layout should be TB, got %s", g.Layout.RankDir)
	}
}

func TestStarRoundTrip(t *testing.T) {
	s := deviceLinkSnapshot(t)
	fact, _ := s.Table("fact_device_link")

	g := staticBuilder(s, DefaultCaps()).Star(s, fact)
	if len(g.Nodes) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(g.Edges))
	}
	if !g.Nodes[0].Emphasis || g.Nodes[0].ID != "fact_device_link" {
		t.Errorf("fact node should come first and be emphasized: %+v", g.Nodes[0])
	}

	first := g.Edges[0]
	want := graph.Edge{
		ID:       "fact_device_link.event_date_key->dim_date.date_key",
		Type:     graph.EdgeTypeFK,
		From:     "fact_device_link",
		FromPort: "event_date_key",
		To:       "dim_date",
		ToPort:   "date_key",
	}
	if *first != want {
		t.Errorf("expected %+v, got %+v", want, *first)
	}
}

func TestStarWithoutEdges(t *testing.T) {
	s, err := schema.FromDefinitions([]schema.TableDef{
		{Name: "dim_user", Columns: []schema.ColumnDef{{Name: "user_key", Type: "INT64"}}},
		{Name: "fact_lonely", Columns: []schema.ColumnDef{{Name: "amount", Type: "FLOAT64"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	fact, _ := s.Table("fact_lonely")

	g := NewBuilder(analyzer.NewRelationshipInferer(s), DefaultCaps()).Star(s, fact)
	if len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Errorf("expected a single fact node, got %d nodes %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestFullERDTruncation(t *testing.T) {
	var dimCols []schema.ColumnDef
	for i := 0; i < 20; i++ {
		dimCols = append(dimCols, schema.ColumnDef{Name: fmt.Sprintf("attr_%02d", i), Type: "STRING"})
	}
	dimCols = append(dimCols, schema.ColumnDef{Name: "legacy_key", Type: "INT64"})

	s, err := schema.FromDefinitions([]schema.TableDef{
		{Name: "dim_wide", Columns: dimCols},
		{Name: "fact_x", Columns: []schema.ColumnDef{{Name: "legacy_key", Type: "INT64"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	g := NewBuilder(analyzer.NewRelationshipInferer(s), DefaultCaps()).FullERD(s)
	wide := g.GetNode("dim_wide")
	if len(wide.Rows) != DefaultDimensionCap || wide.Hidden != 6 {
		t.Errorf("expected %d rows and 6 hidden, got %d rows %d hidden", DefaultDimensionCap, len(wide.Rows), wide.Hidden)
	}

	if len(g.Edges) != 1 {
		t.Fatalf("hidden column must still produce an edge, got %v", g.Edges)
	}
	e := g.Edges[0]
	if e.FromPort != "legacy_key" || e.ToPort != "" {
		t.Errorf("edge into a hidden column should attach to the node, got %+v", e)
	}

	full := NewBuilder(analyzer.NewRelationshipInferer(s), Caps{}).FullERD(s)
	if n := full.GetNode("dim_wide"); len(n.Rows) != 21 || n.Hidden != 0 {
		t.Errorf("zero caps should disable truncation, got %d rows", len(n.Rows))
	}
}

func TestFullERDDeterministic(t *testing.T) {
	s, err := static.Load()
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(analyzer.NewRelationshipInferer(s), DefaultCaps())

	first, err := b.FullERD(s).ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, _ := b.FullERD(s).ToJSON()
		if !reflect.DeepEqual(first, again) {
			t.Fatal("FullERD output is not deterministic")
		}
	}

	g := b.FullERD(s)
	if len(g.Nodes) != 30 {
		t.Errorf("expected 30 nodes, got %d", len(g.Nodes))
	}
	if g.Nodes[0].Type != graph.NodeTypeDimension || g.Nodes[len(g.Nodes)-1].Type != graph.NodeTypeFact {
		t.Error("dimensions should precede facts")
	}
}
