// Package io reads and writes sequences and placement results as JSON.
//
// # JSON Format
//
// A sequence is an object with a beats array. Each beat holds a pictograph
// whose motions are keyed by color:
//
//	{
//	  "id": "demo",
//	  "word": "G",
//	  "prop_type": "staff",
//	  "beats": [
//	    {
//	      "beat": 1,
//	      "pictograph": {
//	        "letter": "G",
//	        "motions": {
//	          "blue": {"motion_type": "pro", "start_loc": "n", "end_loc": "s",
//	                   "turns": 1, "prop_rot_dir": "cw", "start_ori": "in"},
//	          "red":  {"motion_type": "anti", "start_loc": "n", "end_loc": "s",
//	                   "turns": 0, "prop_rot_dir": "ccw", "start_ori": "in"}
//	        }
//	      }
//	    }
//	  ]
//	}
//
// An optional start_position has the same shape as a beat. Arrows and props
// may be omitted; they are derived from the motions on import.
//
// # Normalization
//
// Enum fields accept long forms and any case ("North", "clockwise") and
// are rewritten to their canonical short form. Values that cannot be parsed
// are kept as they are: the engine places unknown motion types like static
// motions and unknown locations on the north hand point. Beats without a
// number are numbered by position.
//
// # Import
//
// Use [ImportSequence] to read a sequence from a file path, or
// [ReadSequence] to read from any io.Reader:
//
//	seq, err := io.ImportSequence("flow.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// [WriteJSON] and [ExportJSON] write any value, typically a sequence or an
// engine result, as indented JSON.
package io
