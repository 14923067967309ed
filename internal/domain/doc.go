// Package domain models the static records behind the Guardian View map:
// tile layers, hazard zones, and the read-only view of the map state that
// the browser's rendering engine owns.
//
// # Tile Layers
//
// Tile URLs follow the slippy-map template convention understood by the
// rendering engine (Leaflet):
//
//	https://tile.openstreetmap.org/{z}/{x}/{y}.png
//	https://gibs.earthdata.nasa.gov/.../250m/{z}/{y}/{x}.jpg
//
//	{z}  zoom level
//	{x}  tile column
//	{y}  tile row (XYZ scheme); {-y} is the TMS-flipped row
//	{s}  subdomain, picked by the engine
//	{r}  "@2x" on retina displays, empty otherwise
//
// The column, row, and zoom placeholders travel together: a template that
// names one of them must name all three. A URL with none of them must carry
// a query string instead; such services (e.g. the USGS streamflow raster)
// return a pre-rendered image that does not depend on the tile position.
//
// Every layer carries an attribution string because tile-usage policies of
// the upstream providers require one. The layer identifier used by the
// toggle control and by [MapViewState] is a slug of the display name:
// "NASA TrueColor" becomes "nasa-truecolor".
//
// # Hazard Zones
//
// A hazard zone is a circle on the WGS-84 sphere: a center in degrees and a
// radius in meters. Category ("Flood", "Wind", ...) is free text used only
// for the popup label "{Category} Risk Zone". Color is always explicit;
// there is no category to color table.
//
// Geometry helpers ([HazardZone.Cap], [HazardZone.Bounds]) treat the Earth
// as a sphere of mean radius [EarthRadiusMeters]. That matches how the
// engine projects circle radii closely enough for overlap detection and
// bounding boxes; it is not used for anything that needs survey accuracy.
//
// # Map State
//
// The set of visible layers is owned by the rendering engine. Application
// code only ever sees a [MapViewState] value, which is a snapshot, and
// [LayerEvent] values describing toggles the engine already performed.
package domain
