package order

import (
	"testing"

	"github.com/EricDisero/stemfetch/internal/model"
)

func makeStems(t *testing.T, specs []model.StemSpec) []*model.Stem {
	t.Helper()
	cfg := &model.PathConfig{
		DownloadsPath:  "/stems/{song}",
		FileNameFormat: "{stem}.wav",
	}
	return model.NewManifest("Song", specs, cfg).Stems
}

func names(stems []*model.Stem) []string {
	out := make([]string, len(stems))
	for i, s := range stems {
		out[i] = s.Name
	}
	return out
}

func TestStems_TierOrder(t *testing.T) {
	// Scrambled input: untagged, drum, primary, drum.
	stems := makeStems(t, []model.StemSpec{
		{Name: "ee", Category: model.CategoryOther, Label: "Everything Else"},
		{Name: "hats", Category: model.CategoryHats, Label: "Hats"},
		{Name: "vocals", Category: model.CategoryVocal, Label: "Vocals"},
		{Name: "kick", Category: model.CategoryKick, Label: "Kick"},
	})

	got := names(Stems(stems))
	want := []string{"vocals", "kick", "hats", "ee"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestStems_SubOrderWithinTier(t *testing.T) {
	// Bass before vocals in input; the fixed sub-order must win.
	stems := makeStems(t, []model.StemSpec{
		{Name: "bass", Category: model.CategoryBass, Label: "Bass"},
		{Name: "vocals", Category: model.CategoryVocal, Label: "Vocals"},
		{Name: "toms", Category: model.CategoryToms, Label: "Toms"},
		{Name: "snare", Category: model.CategorySnare, Label: "Snare"},
	})

	got := names(Stems(stems))
	want := []string{"vocals", "bass", "snare", "toms"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestStems_UnrecognizedKeepManifestOrder(t *testing.T) {
	stems := makeStems(t, []model.StemSpec{
		{Name: "shaker", Category: "percussion", Label: "Shaker"},
		{Name: "vocals", Category: model.CategoryVocal, Label: "Vocals"},
		{Name: "room", Category: "ambience", Label: "Room"},
	})

	got := names(Stems(stems))
	want := []string{"vocals", "shaker", "room"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestStems_InputUntouched(t *testing.T) {
	stems := makeStems(t, []model.StemSpec{
		{Name: "hats", Category: model.CategoryHats, Label: "Hats"},
		{Name: "vocals", Category: model.CategoryVocal, Label: "Vocals"},
	})

	Stems(stems)

	if stems[0].Name != "hats" || stems[1].Name != "vocals" {
		t.Errorf("input slice was reordered: %v", names(stems))
	}
}

func TestStems_StandardSet(t *testing.T) {
	stems := makeStems(t, nil)

	got := names(Stems(stems))
	want := []string{"vocals", "bass", "kick", "snare", "toms", "hats", "ee"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
