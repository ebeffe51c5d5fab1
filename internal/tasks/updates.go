package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a pipeline step.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchAlbum Phase = iota
	FetchSongs
	WriteDocument
	BuildRules
	PushSynonyms
	ClearIndex
	AddRecords
	WaitTask
)

func (p Phase) String() string {
	switch p {
	case FetchAlbum:
		return "fetch_album"
	case FetchSongs:
		return "fetch_songs"
	case WriteDocument:
		return "write_document"
	case BuildRules:
		return "build_rules"
	case PushSynonyms:
		return "push_synonyms"
	case ClearIndex:
		return "clear_index"
	case AddRecords:
		return "add_records"
	case WaitTask:
		return "wait_task"
	default:
		return ""
	}
}

func fetchAlbumUpdate(albumID int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbum,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching tracklist for album %d...", albumID),
	}
}

func songFetchedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, title),
	}
}

func writeDocumentUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteDocument,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d songs to %s...", count, path),
	}
}

func buildSynonymsUpdate(entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildRules,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Building synonyms from %d emoji...", entries),
	}
}

func pushSynonymsUpdate(count int, index string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PushSynonyms,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Replacing synonyms on %s (%d rules)...", index, count),
	}
}

func clearIndexUpdate(index string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClearIndex,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Clearing %s...", index),
	}
}

func addRecordsUpdate(count int, index string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddRecords,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d records to %s...", count, index),
	}
}

func waitTaskUpdate(phase Phase, ids []int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WaitTask,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Waiting for %s task %v...", phase, ids),
		Data:    phase,
	}
}
