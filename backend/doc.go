// treemodel adapts application-owned hierarchical data to virtual tree and list views.
//
// A virtual view doesn't hold a copy of the data. It asks the model for what it needs as it lays out,
// paints, sorts and edits rows: the parent of an item, whether an item can have children, the children
// themselves, one cell value, whether an edit is accepted, and how two items compare. When the
// application changes the data on its own, it tells the view which items were added, deleted or changed,
// and the view drops what it cached for them.
//
// This package provides that model without depending on any toolkit. Native toolkit bindings, the
// in-process View and the out-of-process Connection all talk to the same Model.
//
// Items
//
// An Item is an opaque handle to one node: a slot index and a generation number. Items are small,
// comparable, and safe to keep around. After a node is removed, its Item is stale; every model operation
// answers a stale Item as if it named nothing (Root as parent, no children, empty values, rejected
// edits) instead of failing. The zero Item is Root, the invisible parent of all top-level nodes.
//
// Trees
//
// Tree is an arena for application data. Nodes are stored in slots and linked by Item, so there are no
// ownership cycles between parents and children, and a removed node's slot is reused with a new
// generation:
//
//  tree := treemodel.NewTree[Song]()
//  pop, _ := tree.Add(treemodel.Root, treemodel.Branch, Song{Title: "Pop music"})
//  song, _ := tree.Add(pop, treemodel.Leaf, Song{Title: "Take a bow", Year: 1994})
//
// Data sources
//
// DataSource is the contract between a model and a dataset. TreeModel implements it for any Tree, with
// one Field per column; StructFields derives those fields from struct tags for simple cases. Other
// datasets can implement DataSource directly.
//
//  fields, _ := treemodel.StructFields[Server]()
//  source, _ := treemodel.NewTreeModel(tree, fields)
//  model, _ := treemodel.NewModel(source, source.Columns())
//
// Notifications
//
// The application owns the data and mutates it directly, then notifies the model before anything else
// can look at it:
//
//  parent, _ := tree.Remove(song)
//  model.ItemDeleted(parent, song)
//
// Every attached Surface receives the notification. Surfaces are attached with Model.Attach, which
// checks that the surface's columns match the model's.
//
// Threads
//
// Nothing in this package locks. Models, trees and views belong to one goroutine, usually the UI
// goroutine. Work finished elsewhere is handed back to that goroutine, for example with
// Connection.Post, and the mutation and notification happen there.
//
// Connection
//
// Connection serves a Model to a display surface in another process over a pair of streams. The
// backend/frontend package uses it to run an external display program on pipes.
package treemodel
