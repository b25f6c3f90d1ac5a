// Command treemodel shows and edits a music library through the treemodel
// adapter, and serves it to external display programs.
package main

func main() {
	execute()
}
