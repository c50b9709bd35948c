package selector

import (
	"sort"

	"github.com/soustitre/soustitre/internal/apperrors"
	"github.com/soustitre/soustitre/internal/models"
)

// fallbackLanguage is tried after the requested language, per the canonical policy.
const fallbackLanguage = "en"

// Selection describes the caption track chosen by the fallback policy.
type Selection struct {
	Track           models.TrackRef
	Language        string
	IsAutoGenerated bool
}

// SelectTrack applies the deterministic language fallback policy to a snapshot:
//
//  1. requested language, manual track
//  2. requested language, auto-generated track
//  3. "en", manual track
//  4. "en", auto-generated track
//  5. first available track by sorted language code, manual before auto
//
// The last step iterates sorted keys so the same snapshot always yields the
// same track regardless of map iteration order. Fails with ErrNoCaptions when
// the snapshot holds no tracks at all.
func SelectTrack(snapshot *models.TracksSnapshot, requested string) (*Selection, error) {
	if snapshot == nil || snapshot.Empty() {
		return nil, apperrors.NewNoCaptionsError("")
	}

	for _, lang := range []string{requested, fallbackLanguage} {
		if ref, ok := snapshot.Manual[lang]; ok {
			return &Selection{Track: ref, Language: lang, IsAutoGenerated: false}, nil
		}
		if ref, ok := snapshot.Auto[lang]; ok {
			return &Selection{Track: ref, Language: lang, IsAutoGenerated: true}, nil
		}
	}

	if len(snapshot.Manual) > 0 {
		lang := sortedKeys(snapshot.Manual)[0]
		return &Selection{Track: snapshot.Manual[lang], Language: lang, IsAutoGenerated: false}, nil
	}

	lang := sortedKeys(snapshot.Auto)[0]
	return &Selection{Track: snapshot.Auto[lang], Language: lang, IsAutoGenerated: true}, nil
}

func sortedKeys(tracks map[string]models.TrackRef) []string {
	keys := make([]string, 0, len(tracks))
	for key := range tracks {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
