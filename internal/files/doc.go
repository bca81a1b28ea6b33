// Package files manages the directories attendance files pass through.
//
// Manager hands out a Workspace per invocation (uploads/<uuid>). Uploads are
// stored inside it under their original names and reports are written to its
// out/ directory, so concurrent requests never see each other's files:
//
//	ws, err := manager.NewWorkspace()
//	if err != nil {
//	    return err
//	}
//	defer ws.Cleanup()
//	path, err := ws.SaveMultipart(header)
//
// Discovery lists the roster and raw files of a directory for batch runs.
package files
