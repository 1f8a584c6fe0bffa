// Package member_tools provides MCP tools for Trello members and search.
//
// Tools:
//   - trello_get_member: get a member's profile (defaults to the token owner)
//   - trello_get_member_boards: list the boards a member belongs to
//   - trello_get_member_cards: list the cards assigned to a member
//   - trello_search: search boards, cards, and members
//
// All tools in this package are read-only.
package member_tools
