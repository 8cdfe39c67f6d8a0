// Package cli implements the interactive Messagely command-line client.
//
// The REPL reads one command per line. Commands:
//
//	register        create an account (prompts for details)
//	login           authenticate
//	logout          forget the session and the cached inbox
//	users           list the directory
//	me              show your profile
//	send            send a message (prompts for recipient and body)
//	inbox           messages you received; cached for offline use
//	outbox          messages you sent
//	show <id>       one message
//	read <id>       mark a received message read
//	help            list commands
//	exit | quit     leave
//
// The session token is kept in the local sqlite cache so a restart does not
// require logging in again.
package cli
