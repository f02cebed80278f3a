// meta/meta.go
package meta

// BOARD_SIZE defines the number of fields per board axis.
const BOARD_SIZE = 8

// MAX_TURNS defines the turn after which the game is over (30 rounds).
const MAX_TURNS = 60

// WINNING_AMBERS defines the number of ambers that ends the game.
const WINNING_AMBERS = 2

// AMBER_TOWER_HEIGHT defines the tower height at which a tower turns into an amber.
const AMBER_TOWER_HEIGHT = 3

// GAME_TYPE is the game identifier used when joining a game server.
const GAME_TYPE = "swc_2023_ostseeschach"
