package docs

// @title           Bus Tracker API
// @version         1.0
// @description     Real-time bus location tracking. Buses report positions over HTTP; observers follow the fleet or a single route over WebSocket.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
