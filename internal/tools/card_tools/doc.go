// Package card_tools provides MCP tools for working with Trello cards.
//
// Read tools:
//   - trello_get_card: get details of a card
//   - trello_get_card_actions: get recent activity on a card
//   - trello_get_card_attachments: get the attachments on a card
//
// Write tools (only registered when the server runs with --yolo):
//   - trello_create_card: create a card in a list
//   - trello_update_card: change a card's name, description, or due date
//   - trello_move_card: move a card to another list
//   - trello_delete_card: permanently delete a card
//   - trello_add_comment: comment on a card
//   - trello_attach_url: attach a URL to a card
//   - trello_attach_file: upload a local file as a card attachment
//
// trello_attach_file reads files relative to the directory named by the
// BASE_PATH environment variable and refuses paths that escape it.
package card_tools
