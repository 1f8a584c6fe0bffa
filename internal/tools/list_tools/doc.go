// Package list_tools provides MCP tools for working with Trello lists.
//
// Read tools:
//   - trello_get_list: get details of a list
//   - trello_get_list_cards: get the cards in a list
//
// Write tools (only registered when the server runs with --yolo):
//   - trello_create_list: create a list on a board
//   - trello_update_list: rename or reposition a list
//   - trello_archive_list: archive (close) a list
package list_tools
