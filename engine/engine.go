// Package engine drives a game between two agents on a single board.
package engine

const MaxMoves = 50 // Plies before the game is drawn by the move cap

// DrawByMoves is the game status when the move cap ends the game.
const DrawByMoves = "draw_by_moves"
