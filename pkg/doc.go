// Package pkg holds the flowglyph libraries.
//
// Flowglyph places the props and arrows of flow-arts pictographs. A
// pictograph is one beat: a blue and a red motion on a diamond or box grid.
// The engine computes each prop's anchor and rotation, separates props that
// would overlap, and keeps prop orientations continuous from beat to beat.
//
// # Packages
//
// Core geometry and rules, free of I/O:
//
//   - [core/pictograph]: motions, beats, sequences and their enums
//   - [core/geometry]: grid, hand points and vector math
//   - [core/orientation]: end orientation from motion type and turns
//   - [core/prop]: prop size classes and rotation angles
//   - [core/override]: the letter and turn override table
//   - [core/beta]: overlap detection and prop separation
//   - [core/arrow]: arrow anchors, rotation and mirroring
//   - [core/sequence]: orientation continuity checks and repair
//
// Orchestration and infrastructure:
//
//   - [engine]: positions pictographs and whole sequences, with caching
//   - [cache]: placement cache backends (memory, file, redis)
//   - [store]: sequence persistence (file, mongo)
//   - [config]: viper-backed configuration
//   - [server]: chi HTTP API
//   - [render/continuity]: continuity graphs rendered through graphviz
//   - [io]: sequence JSON import and export
//   - [observability]: hooks and OpenTelemetry metrics
//   - [errors]: coded errors
//
// # Quick Start
//
//	runner := engine.NewRunner(nil, nil, nil, engine.Options{})
//	seq, _ := io.ImportSequence("sequence.json")
//	res, _ := runner.PositionSequence(ctx, seq)
//	for _, beat := range res.Beats {
//	    fmt.Println(beat.Letter, beat.Decision.Method, beat.Props)
//	}
package pkg
