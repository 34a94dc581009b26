package export

import (
	"encoding/json"
	"fmt"

	"github.com/msalah0e/graphlens/internal/session"
)

// PageOptions configures the HTML viewer.
type PageOptions struct {
	Title string
	Dark  bool
	// Live pages talk to the server over /ws and show the editor and
	// radio groups; static pages only render the embedded view.
	Live bool
	Text string
}

// HTML returns a self-contained page rendering v on a canvas with a small
// force-directed layout. All data is embedded; no external scripts.
func HTML(v session.View, opts PageOptions) string {
	if opts.Title == "" {
		opts.Title = "graphlens"
	}
	viewJSON, _ := json.Marshal(v)
	optsJSON, _ := json.Marshal(map[string]any{
		"title": opts.Title,
		"dark":  opts.Dark,
		"live":  opts.Live,
		"text":  opts.Text,
	})

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>graphlens</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{background:#f5f5f7;color:#1d1d1f;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif;overflow:hidden}
body.dark{background:#1c1c1e;color:#e5e5ea}
#panel{position:fixed;top:12px;left:12px;z-index:10;width:280px;background:rgba(255,255,255,0.92);border:1px solid rgba(0,0,0,0.08);border-radius:12px;padding:12px 14px;font-size:12px}
body.dark #panel{background:rgba(44,44,46,0.92);border-color:rgba(255,255,255,0.08)}
#panel h2{font-size:14px;margin-bottom:8px;color:#007aff}
#panel fieldset{border:none;margin:6px 0}
#panel legend{font-weight:600;margin-bottom:2px}
#input{width:100%%;height:120px;font-family:ui-monospace,Menlo,monospace;font-size:11px;border-radius:6px;border:1px solid rgba(0,0,0,0.15);padding:6px;background:transparent;color:inherit}
#error-message{color:#ff3b30;min-height:16px;margin:4px 0}
button{margin-right:6px;padding:3px 10px;border-radius:6px;border:1px solid rgba(0,0,0,0.15);background:transparent;color:inherit;cursor:pointer}
canvas{display:block}
.hidden{display:none}
</style>
</head>
<body>
<div id="panel">
  <h2 id="title"></h2>
  <div id="live-controls" class="hidden">
    <textarea id="input" spellcheck="false"></textarea>
    <fieldset><legend>Mode</legend>
      <label><input type="radio" name="mode" value="directed"> Directed</label>
      <label><input type="radio" name="mode" value="undirected"> Undirected</label>
    </fieldset>
    <fieldset><legend>Highlight</legend>
      <label><input type="radio" name="highlight" value="none"> None</label>
      <label><input type="radio" name="highlight" value="in"> In</label>
      <label><input type="radio" name="highlight" value="out"> Out</label>
    </fieldset>
  </div>
  <div id="error-message"></div>
  <label><input type="checkbox" id="dark-mode"> Dark</label>
  <div style="margin-top:8px"><button id="btn-reset">Reset layout</button><button id="btn-fit">Fit</button></div>
</div>
<canvas id="canvas"></canvas>
<script>
"use strict";
let VIEW=%s;
const OPTS=%s;

const canvas=document.getElementById('canvas');
const ctx=canvas.getContext('2d');
const errorDiv=document.getElementById('error-message');
const darkToggle=document.getElementById('dark-mode');
let W,H,camera={x:0,y:0,zoom:1},drag=null,hoverEdge=null;
let sim={nodes:[],edges:[],byId:{}};
let ws=null;

document.getElementById('title').textContent=OPTS.title;
darkToggle.checked=OPTS.dark;
document.body.classList.toggle('dark',OPTS.dark);
darkToggle.addEventListener('change',()=>document.body.classList.toggle('dark',darkToggle.checked));

function resize(){W=canvas.width=window.innerWidth;H=canvas.height=window.innerHeight}
resize();
window.addEventListener('resize',resize);

function send(msg){if(ws&&ws.readyState===1)ws.send(JSON.stringify(msg))}

function load(view){
  VIEW=view;
  errorDiv.textContent=view.status||'';
  const g=view.graph||{nodes:[],edges:[]};
  const old=sim.byId,byId={};
  const nodes=(g.nodes||[]).map(n=>{
    const prev=old[n.id];
    const s={...n,x:prev?prev.x:W/2+(Math.random()-0.5)*300,y:prev?prev.y:H/2+(Math.random()-0.5)*300,vx:0,vy:0};
    byId[n.id]=s;return s;
  });
  const edges=(g.edges||[]).map(e=>({...e,a:byId[e.source],b:byId[e.target]})).filter(e=>e.a&&e.b);
  sim={nodes,edges,byId};
  if(OPTS.live&&view.state){
    document.querySelectorAll('input[name=mode]').forEach(r=>{r.checked=r.value===view.state.mode});
    document.querySelectorAll('input[name=highlight]').forEach(r=>{r.checked=r.value===view.state.filter});
  }
}

function resetLayout(){for(const n of sim.nodes){n.x=W/2+(Math.random()-0.5)*300;n.y=H/2+(Math.random()-0.5)*300;n.vx=0;n.vy=0}}

function fit(padding){
  if(!sim.nodes.length)return;
  let minx=Infinity,miny=Infinity,maxx=-Infinity,maxy=-Infinity;
  for(const n of sim.nodes){minx=Math.min(minx,n.x);miny=Math.min(miny,n.y);maxx=Math.max(maxx,n.x);maxy=Math.max(maxy,n.y)}
  const gw=Math.max(maxx-minx,1),gh=Math.max(maxy-miny,1);
  camera.zoom=Math.max(0.1,Math.min(5,Math.min((W-2*padding)/gw,(H-2*padding)/gh)));
  camera.x=(minx+maxx)/2;camera.y=(miny+maxy)/2;
}

function tick(){
  const nodes=sim.nodes,edges=sim.edges;
  const k=0.005,repulse=2000,damp=0.85,center=0.001,springLen=110;
  for(const n of nodes){n.vx+=(W/2-n.x)*center;n.vy+=(H/2-n.y)*center}
  for(let i=0;i<nodes.length;i++){
    for(let j=i+1;j<nodes.length;j++){
      let dx=nodes[j].x-nodes[i].x,dy=nodes[j].y-nodes[i].y;
      let d2=dx*dx+dy*dy;if(d2<1)d2=1;
      let f=repulse/d2;
      nodes[i].vx-=dx*f;nodes[i].vy-=dy*f;nodes[j].vx+=dx*f;nodes[j].vy+=dy*f;
    }
  }
  for(const e of edges){
    if(e.a===e.b)continue;
    let dx=e.b.x-e.a.x,dy=e.b.y-e.a.y,d=Math.sqrt(dx*dx+dy*dy)||1;
    let f=(d-springLen)*k;
    e.a.vx+=dx/d*f;e.a.vy+=dy/d*f;e.b.vx-=dx/d*f;e.b.vy-=dy/d*f;
  }
  for(const n of nodes){if(n===drag)continue;n.vx*=damp;n.vy*=damp;n.x+=n.vx;n.y+=n.vy}
}

function toScreen(x,y){return[(x-camera.x)*camera.zoom+W/2,(y-camera.y)*camera.zoom+H/2]}
function toWorld(sx,sy){return[(sx-W/2)/camera.zoom+camera.x,(sy-H/2)/camera.zoom+camera.y]}

function deco(kind,id){
  const d=VIEW.decorations&&VIEW.decorations[kind];
  return (d&&d[id])||'plain';
}

function draw(){
  ctx.clearRect(0,0,W,H);
  const dark=document.body.classList.contains('dark');
  const base=dark?'#666':'#888';
  const r=20*camera.zoom;
  for(const e of sim.edges){
    const d=deco('edges',e.id);
    const[ax,ay]=toScreen(e.a.x,e.a.y),[bx,by]=toScreen(e.b.x,e.b.y);
    const col=d==='emphasized'?'#ff9500':base;
    ctx.globalAlpha=d==='dimmed'?0.15:1;
    ctx.strokeStyle=col;ctx.fillStyle=col;ctx.lineWidth=2;
    ctx.beginPath();
    if(e.a===e.b){ctx.arc(ax+r,ay-r,r*0.8,0,Math.PI*2)}else{ctx.moveTo(ax,ay);ctx.lineTo(bx,by)}
    ctx.stroke();
    if(e.mode==='directed'&&e.a!==e.b){
      const ang=Math.atan2(by-ay,bx-ax),tx=bx-Math.cos(ang)*r,ty=by-Math.sin(ang)*r;
      ctx.beginPath();ctx.moveTo(tx,ty);
      ctx.lineTo(tx-9*Math.cos(ang-0.35),ty-9*Math.sin(ang-0.35));
      ctx.lineTo(tx-9*Math.cos(ang+0.35),ty-9*Math.sin(ang+0.35));
      ctx.closePath();ctx.fill();
    }
  }
  for(const n of sim.nodes){
    const d=deco('nodes',n.id);
    const[sx,sy]=toScreen(n.x,n.y);
    ctx.globalAlpha=d==='dimmed'?0.15:1;
    ctx.beginPath();ctx.arc(sx,sy,r,0,Math.PI*2);
    ctx.fillStyle=d==='emphasized'?'#ff9500':'#007aff';ctx.fill();
    ctx.fillStyle='#fff';ctx.textAlign='center';ctx.font=Math.max(8,9*camera.zoom)+'px -apple-system,sans-serif';
    const lines=String(n.fullLabel).split('\n');
    lines.forEach((l,i)=>ctx.fillText(l,sx,sy+(i-(lines.length-1)/2)*11*camera.zoom+3));
  }
  ctx.globalAlpha=1;
}

function findNode(sx,sy){
  const[wx,wy]=toWorld(sx,sy);
  for(let i=sim.nodes.length-1;i>=0;i--){
    const n=sim.nodes[i],dx=n.x-wx,dy=n.y-wy;
    if(dx*dx+dy*dy<400)return n;
  }
  return null;
}

function findEdge(sx,sy){
  const[px,py]=toWorld(sx,sy);
  for(const e of sim.edges){
    if(e.a===e.b)continue;
    const vx=e.b.x-e.a.x,vy=e.b.y-e.a.y,len=vx*vx+vy*vy||1;
    let t=((px-e.a.x)*vx+(py-e.a.y)*vy)/len;t=Math.max(0,Math.min(1,t));
    const dx=e.a.x+t*vx-px,dy=e.a.y+t*vy-py;
    if(dx*dx+dy*dy<25)return e;
  }
  return null;
}

let downAt=null;
canvas.addEventListener('mousedown',e=>{
  downAt={x:e.clientX,y:e.clientY};
  const n=findNode(e.clientX,e.clientY);
  drag=n?n:{pan:true,sx:e.clientX,sy:e.clientY,cx:camera.x,cy:camera.y};
});
canvas.addEventListener('mousemove',e=>{
  if(drag&&drag.pan){camera.x=drag.cx-(e.clientX-drag.sx)/camera.zoom;camera.y=drag.cy-(e.clientY-drag.sy)/camera.zoom}
  else if(drag){const[wx,wy]=toWorld(e.clientX,e.clientY);drag.x=wx;drag.y=wy}
  const hit=findNode(e.clientX,e.clientY)?null:findEdge(e.clientX,e.clientY);
  if(hit!==hoverEdge){
    if(hoverEdge)send({type:'unhoverEdge'});
    hoverEdge=hit;
    if(hit)send({type:'hoverEdge',id:hit.id});
  }
});
canvas.addEventListener('mouseup',e=>{
  const moved=downAt&&(Math.abs(e.clientX-downAt.x)+Math.abs(e.clientY-downAt.y))>4;
  if(!moved){
    const n=findNode(e.clientX,e.clientY);
    send(n?{type:'tapNode',id:n.id}:{type:'tapBackground'});
  }
  drag=null;downAt=null;
});
canvas.addEventListener('wheel',e=>{
  e.preventDefault();
  camera.zoom=Math.max(0.1,Math.min(5,camera.zoom*(e.deltaY>0?0.9:1.1)));
},{passive:false});

document.getElementById('btn-reset').addEventListener('click',resetLayout);
document.getElementById('btn-fit').addEventListener('click',()=>fit(35));

if(OPTS.live){
  document.getElementById('live-controls').classList.remove('hidden');
  const input=document.getElementById('input');
  input.value=OPTS.text;
  input.addEventListener('input',()=>send({type:'edit',text:input.value}));
  document.querySelectorAll('input[name=mode]').forEach(r=>r.addEventListener('change',e=>send({type:'setMode',value:e.target.value})));
  document.querySelectorAll('input[name=highlight]').forEach(r=>r.addEventListener('change',e=>send({type:'setFilter',value:e.target.value})));
  ws=new WebSocket((location.protocol==='https:'?'wss://':'ws://')+location.host+'/ws');
  ws.onmessage=m=>{
    const msg=JSON.parse(m.data);
    if(msg.type==='view'){
      load(msg.view);
      if(typeof msg.text==='string'&&document.activeElement!==input)input.value=msg.text;
    }
  };
}

load(VIEW);
(function loop(){tick();draw();requestAnimationFrame(loop)})();
</script>
</body>
</html>
`, string(viewJSON), string(optsJSON))
}
