// Package output renders scraping results as JSON or CSV.
//
// # Formats
//
// JSON carries the full report:
//
//	{
//	  "success": true,
//	  "tag": "ambient",
//	  "total_albums_scraped": 12,
//	  "results": [{"email": "...", "name": "...", "notes": "...", "source_url": "..."}],
//	  "errors": []
//	}
//
// CSV carries one row per contact under the header
// email,name,notes,source_url.
//
// # Writing
//
//	format, err := output.ParseFormat("csv")
//	err = output.Write(os.Stdout, report, format)
//
//	// Or to a file, creating directories as needed
//	err = output.WriteFile(output.FileName("ambient", format), report, format)
package output
