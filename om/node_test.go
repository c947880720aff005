package om

import (
	"math"
	"testing"
)

// sample covers every composite kind plus all the scalar payloads.
func sample() *Object {
	return Attribute(
		Apply(
			Sym("arith1", "plus"),
			FromInt(1),
			FromFloat(math.Pi),
			FromString("hi"),
			FromBytes([]byte{0, 1, 2}),
			Bind(Sym("fns1", "lambda"), []*Object{Var("x")}, Var("x")),
			ErrorObj(Symbol{CD: "aritherror1", Name: "DivisionByZero"}, Var("y")),
			Foreign("text/plain", []byte("payload")),
		),
		Attr{Symbol: Symbol{CD: "meta", Name: "note"}, Value: FromString("n")},
	)
}

func TestCloneIndependence(t *testing.T) {
	orig := sample()
	cp := orig.Clone()
	if !Equal(orig, cp) {
		t.Fatal("clone differs from original")
	}

	// Mutating the clone's byte payloads must not reach the original.
	cp.Body.Arguments[3].Bytes[0] = 0xff
	cp.Body.Arguments[6].Data[0] = 'X'
	if orig.Body.Arguments[3].Bytes[0] != 0 {
		t.Error("OMB payload shared with clone")
	}
	if orig.Body.Arguments[6].Data[0] != 'p' {
		t.Error("foreign payload shared with clone")
	}

	cp.Attrs[0].Value.String = "changed"
	if orig.Attrs[0].Value.String != "n" {
		t.Error("attribute value shared with clone")
	}
}

func TestVisitOrder(t *testing.T) {
	tree := Apply(Sym("arith1", "plus"), FromInt(1), Var("x"))
	var pre, post []Kind
	err := tree.Visit(func(o *Object, isPost bool) (bool, error) {
		if isPost {
			post = append(post, o.Kind)
		} else {
			pre = append(pre, o.Kind)
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	wantPre := []Kind{OMA, OMS, OMI, OMV}
	wantPost := []Kind{OMS, OMI, OMV, OMA}
	for i, k := range wantPre {
		if pre[i] != k {
			t.Fatalf("pre order %v, want %v", pre, wantPre)
		}
	}
	for i, k := range wantPost {
		if post[i] != k {
			t.Fatalf("post order %v, want %v", post, wantPost)
		}
	}
}

func TestVisitSkipChildren(t *testing.T) {
	tree := Apply(Sym("arith1", "plus"), Apply(Sym("arith1", "times"), FromInt(2)))
	n := 0
	err := tree.Visit(func(o *Object, isPost bool) (bool, error) {
		if !isPost {
			n++
		}
		// Do not dive below the first nested application.
		return !(o.Kind == OMA && n > 1), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 { // outer OMA, its head, the inner OMA
		t.Errorf("visited %d nodes, want 3", n)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Kind
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("%s: %v", b, err)
		}
		if back != k {
			t.Errorf("%s round-tripped to %s", k, back)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("OMR")); err == nil {
		t.Error("OMR accepted as a kind")
	}
}
