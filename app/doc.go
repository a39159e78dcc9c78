// Package app provides the Application proxy, the named entry point
// into an external application's object graph.
//
// Importing the package registers the "application" class tag with the
// bridge's default dispatch map, so bridge.Application results come
// back as *app.Application.
//
//	br := bridge.New(exec)
//	finder, err := app.Connect(br, "Finder")
//	if err != nil {
//	    return err
//	}
//	defer finder.Close()
//
//	front, err := finder.Frontmost()
package app
