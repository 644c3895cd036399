// Package io reads and writes chart documents as JSON.
//
// A chart document wraps a [chart.Chart] with a format version and
// provenance:
//
//	{
//	  "version": 1,
//	  "provider": "analytic",
//	  "generated_at": "2026-10-18T09:12:44Z",
//	  "chart": {
//	    "birth": {"date": "1990-06-15", "time": "12:00", "latitude": 19.076, "longitude": 72.8777},
//	    "positions": [...],
//	    "houses": {...},
//	    "aspects": [...],
//	    "dashas": {...},
//	    "placements": [...]
//	  }
//	}
//
// Bodies and signs are encoded by lowercase name. Times are RFC 3339.
//
// Use [WriteJSON] and [ReadJSON] with any stream, or [ExportJSON] and
// [ImportJSON] for files. Imported documents are checked for a supported
// version and for structural completeness; positions are not recomputed.
package io
