// Package board_tools provides MCP tools for working with Trello boards.
//
// # Available Tools
//
// Read operations (always available):
//   - trello_get_board: Get details of a board
//   - trello_get_board_lists: Get the lists on a board
//   - trello_get_board_cards: Get the cards on a board
//   - trello_get_board_members: Get the members of a board
//   - trello_get_board_actions: Get recent activity on a board
//
// Write operations (require --yolo):
//   - trello_create_board: Create a new board
//   - trello_update_board: Update a board's name or description
//   - trello_close_board: Close (archive) a board
package board_tools
