// Package engine provides the core puzzle logic for the circuit repair game.
//
// The engine package implements the game mechanics including:
//   - Tile types, rotations and port geometry
//   - Grid placement, rotation and snapshot/reset
//   - Circuit connectivity via breadth-first search over tile ports
//   - Exact-match win condition evaluation with a per-session latch
//   - Level definitions loaded from JSON and procedural level generation
//
// Core Types:
//
// The Engine interface defines the main contract for puzzle operations,
// implemented by GameEngine. GameState is the serializable view of one play
// session, while LevelConfig defines the board layout, scramble and accepted
// rotations loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadLevelConfig("configs/level_1.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Rotate a tile and check the result
//	game.RotateTile(2, 1)
//	if game.CheckWin() {
//		fmt.Println("solved in", game.MoveCount(), "moves")
//	}
//
// Game Rules:
//
// Players rotate circuit tiles on a grid to route current from the power
// source to the terminal. Straights and corners rotate in quarter turns;
// the power source and terminal are fixed. The puzzle is won when every
// constrained tile sits at one of its accepted rotations, and once won the
// session stays won: further rotations are refused and reset keeps the
// completion flag.
package engine
