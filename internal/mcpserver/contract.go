package mcpserver

// ImageRecordContract documents the gallery record shape returned by the
// MCP tools, served as the gallery://image-record resource.
const ImageRecordContract = `# Gallery image record

Every tool that returns image data uses this JSON shape:

` + "```json" + `
{
  "id": "stable unique identifier",
  "path": "filesystem path of the original file",
  "folder_id": "owning collection reference",
  "thumbnailPath": "path of the cached thumbnail, may be empty",
  "metadata": {
    "name": "photo.jpg",
    "date_created": "ISO-ish timestamp or null",
    "width": 1920,
    "height": 1080,
    "file_location": "filesystem path",
    "file_size": 204800,
    "item_type": "image/jpeg",
    "latitude": 51.5,
    "longitude": -0.1,
    "location": "human-readable place name"
  },
  "isTagged": false,
  "isFavourite": false,
  "tags": []
}
` + "```" + `

Rules:

- ` + "`isFavourite`" + ` is always present; it defaults to false.
- ` + "`isTagged`" + ` is derived: true exactly when ` + "`tags`" + ` is non-empty.
- ` + "`latitude`" + `, ` + "`longitude`" + `, and ` + "`location`" + ` are each
  independently optional and are null when the source file carries no
  geolocation data.
`
